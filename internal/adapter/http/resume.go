package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"clearvide/internal/model"
)

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// GetResume returns everything the editor needs to draw itself.
func (h *Handler) GetResume(c *fiber.Ctx) error {
	s := session(c)
	return c.JSON(fiber.Map{
		"resumeData":   s.Store.Document(),
		"template":     s.Template(),
		"entitlements": s.Gate.Entitlements(),
		"gate":         s.Gate.State(),
		"tasks":        s.Tasks.Snapshot(),
	})
}

func (h *Handler) document(c *fiber.Ctx) error {
	return c.JSON(session(c).Store.Document())
}

func (h *Handler) UpdatePersonal(c *fiber.Ctx) error {
	var p model.PersonalDetailsPatch
	if err := c.BodyParser(&p); err != nil {
		return badRequest(c, "invalid personal details")
	}
	session(c).Store.UpdatePersonalDetails(p)
	return h.document(c)
}

func (h *Handler) UpdateSummary(c *fiber.Ctx) error {
	var req struct {
		Summary string `json:"summary"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid summary")
	}
	session(c).Store.UpdateSummary(req.Summary)
	return h.document(c)
}

func (h *Handler) AddEmployment(c *fiber.Ctx) error {
	id := session(c).Store.AddEmployment()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "resumeData": session(c).Store.Document()})
}

func (h *Handler) UpdateEmployment(c *fiber.Ctx) error {
	var p model.EmploymentPatch
	if err := c.BodyParser(&p); err != nil {
		return badRequest(c, "invalid employment entry")
	}
	session(c).Store.UpdateEmployment(c.Params("id"), p)
	return h.document(c)
}

func (h *Handler) RemoveEmployment(c *fiber.Ctx) error {
	session(c).Store.RemoveEmployment(c.Params("id"))
	return h.document(c)
}

func (h *Handler) AddEducation(c *fiber.Ctx) error {
	id := session(c).Store.AddEducation()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "resumeData": session(c).Store.Document()})
}

func (h *Handler) UpdateEducation(c *fiber.Ctx) error {
	var p model.EducationPatch
	if err := c.BodyParser(&p); err != nil {
		return badRequest(c, "invalid education entry")
	}
	session(c).Store.UpdateEducation(c.Params("id"), p)
	return h.document(c)
}

func (h *Handler) RemoveEducation(c *fiber.Ctx) error {
	session(c).Store.RemoveEducation(c.Params("id"))
	return h.document(c)
}

type listReq struct {
	Items []string `json:"items"`
}

type itemReq struct {
	Item string `json:"item"`
}

func (h *Handler) ReplaceSkills(c *fiber.Ctx) error {
	var req listReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid skills")
	}
	session(c).Store.UpdateSkills(req.Items)
	return h.document(c)
}

func (h *Handler) ReplaceLanguages(c *fiber.Ctx) error {
	var req listReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid languages")
	}
	session(c).Store.UpdateLanguages(req.Items)
	return h.document(c)
}

func (h *Handler) AddSkill(c *fiber.Ctx) error {
	var req itemReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid skill")
	}
	added := session(c).Store.AddSkill(req.Item)
	return c.JSON(fiber.Map{"added": added, "resumeData": session(c).Store.Document()})
}

func (h *Handler) RemoveSkill(c *fiber.Ctx) error {
	var req itemReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid skill")
	}
	removed := session(c).Store.RemoveSkill(req.Item)
	return c.JSON(fiber.Map{"removed": removed, "resumeData": session(c).Store.Document()})
}

func (h *Handler) AddLanguage(c *fiber.Ctx) error {
	var req itemReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid language")
	}
	added := session(c).Store.AddLanguage(req.Item)
	return c.JSON(fiber.Map{"added": added, "resumeData": session(c).Store.Document()})
}

func (h *Handler) RemoveLanguage(c *fiber.Ctx) error {
	var req itemReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid language")
	}
	removed := session(c).Store.RemoveLanguage(req.Item)
	return c.JSON(fiber.Map{"removed": removed, "resumeData": session(c).Store.Document()})
}

func (h *Handler) SetTemplate(c *fiber.Ctx) error {
	var req struct {
		Template string `json:"template"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid template")
	}
	tpl, err := model.ParseTemplate(req.Template)
	if err != nil {
		return noticeJSON(c, fiber.StatusUnprocessableEntity, "Unknown Template", err.Error())
	}
	session(c).SetTemplate(tpl)
	return c.JSON(fiber.Map{"template": tpl})
}

func (h *Handler) Preview(c *fiber.Ctx) error {
	out, err := session(c).Preview()
	if err != nil {
		h.log.Error("render preview", zap.Error(err))
		return respondError(c, err)
	}
	c.Type("html", "utf-8")
	return c.Send(out)
}

func (h *Handler) Export(c *fiber.Ctx) error {
	res, err := h.exporter.Export(c.UserContext(), session(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", res.FileName))
	return c.Send(res.PDF)
}

func (h *Handler) ExportHistory(c *fiber.Ctx) error {
	jobs, err := h.exporter.History(c.UserContext(), session(c).ID)
	if err != nil {
		h.log.Warn("list exports", zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"exports": jobs})
}

func (h *Handler) RefreshEntitlements(c *fiber.Ctx) error {
	s := session(c)
	if err := s.Gate.Refresh(c.UserContext(), bearer(c)); err != nil {
		return noticeJSON(c, fiber.StatusBadGateway, "Could Not Check Subscription", "Your saved plan is still active. Please try again later.")
	}
	return c.JSON(fiber.Map{"entitlements": s.Gate.Entitlements(), "gate": s.Gate.State()})
}

func (h *Handler) Tasks(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"tasks": session(c).Tasks.Snapshot()})
}
