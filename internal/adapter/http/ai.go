package http

import (
	"github.com/gofiber/fiber/v2"

	"clearvide/internal/model"
	"clearvide/internal/usecase"
	"clearvide/pkg/ai"
)

type instructionReq struct {
	Instruction string `json:"instruction"`
}

// instruction reads an optional {instruction} body; an empty body is fine.
func instruction(c *fiber.Ctx) (string, error) {
	var req instructionReq
	if len(c.Body()) == 0 {
		return "", nil
	}
	if err := c.BodyParser(&req); err != nil {
		return "", err
	}
	return req.Instruction, nil
}

// GenerateSummary and the other editor AI actions act for the bearer of the
// request; a session cookie alone never unlocks them.
func (h *Handler) GenerateSummary(c *fiber.Ctx) error {
	in, err := instruction(c)
	if err != nil {
		return badRequest(c, "invalid instruction")
	}
	out, err := h.assistant.GenerateSummary(c.UserContext(), session(c), bearer(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"summary": out})
}

func (h *Handler) GenerateDescription(c *fiber.Ctx) error {
	in, err := instruction(c)
	if err != nil {
		return badRequest(c, "invalid instruction")
	}
	out, err := h.assistant.GenerateDescription(c.UserContext(), session(c), bearer(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"description": out})
}

func (h *Handler) SuggestSkills(c *fiber.Ctx) error {
	added, err := h.assistant.SuggestSkills(c.UserContext(), session(c), bearer(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"added": added, "skills": session(c).Store.Document().Skills})
}

func (h *Handler) Analyze(c *fiber.Ctx) error {
	res, err := h.assistant.Analyze(c.UserContext(), session(c), bearer(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

func (h *Handler) CoverLetter(c *fiber.Ctx) error {
	var req usecase.CoverLetterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid cover letter request")
	}
	out, err := h.assistant.WriteCoverLetter(c.UserContext(), session(c), bearer(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"coverLetter": out})
}

// Polish is the account-level AI proxy used outside the editor.
func (h *Handler) Polish(c *fiber.Ctx) error {
	var req ai.PolishRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid polish request")
	}
	out, err := h.assistant.Polish(c.UserContext(), currentUser(c).Entitlements(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"result": out})
}

func (h *Handler) AnalyzeDocument(c *fiber.Ctx) error {
	var req struct {
		ResumeData model.ResumeDocument `json:"resumeData"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid resume")
	}
	req.ResumeData.Normalize()
	res, err := h.assistant.AnalyzeDocument(c.UserContext(), currentUser(c).Entitlements(), req.ResumeData)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}
