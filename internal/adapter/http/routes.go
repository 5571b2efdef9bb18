package http

import "github.com/gofiber/fiber/v2"

// Register mounts every route on app.
func (h *Handler) Register(app *fiber.App) {
	app.Use(RequestLogger(h.log))
	app.Get("/health", h.Health)

	api := app.Group("/api")

	r := api.Group("/resume", h.withSession)
	r.Get("/", h.GetResume)
	r.Patch("/personal", h.UpdatePersonal)
	r.Put("/summary", h.UpdateSummary)
	r.Post("/employment", h.AddEmployment)
	r.Patch("/employment/:id", h.UpdateEmployment)
	r.Delete("/employment/:id", h.RemoveEmployment)
	r.Post("/education", h.AddEducation)
	r.Patch("/education/:id", h.UpdateEducation)
	r.Delete("/education/:id", h.RemoveEducation)
	r.Put("/skills", h.ReplaceSkills)
	r.Post("/skills/add", h.AddSkill)
	r.Post("/skills/remove", h.RemoveSkill)
	r.Put("/languages", h.ReplaceLanguages)
	r.Post("/languages/add", h.AddLanguage)
	r.Post("/languages/remove", h.RemoveLanguage)
	r.Put("/template", h.SetTemplate)
	r.Get("/preview", h.Preview)
	r.Get("/export", h.Export)
	r.Get("/exports", h.ExportHistory)
	r.Post("/entitlements/refresh", h.RefreshEntitlements)
	r.Get("/tasks", h.Tasks)

	gen := r.Group("/ai")
	gen.Post("/summary", h.GenerateSummary)
	gen.Post("/description/:id", h.GenerateDescription)
	gen.Post("/skills", h.SuggestSkills)
	gen.Post("/analysis", h.Analyze)
	gen.Post("/cover-letter", h.CoverLetter)

	api.Get("/prices", h.Prices)
	api.Post("/webhook", h.Webhook)

	api.Get("/me", h.requireUser, h.Me)
	api.Post("/checkout", h.requireUser, h.Checkout)
	api.Post("/portal", h.requireUser, h.Portal)
	api.Post("/polish", h.requireUser, h.Polish)
	api.Post("/analyze", h.requireUser, h.AnalyzeDocument)
	api.Get("/admin/users", h.requireUser, h.ListUsers)
	api.Patch("/admin/users/:userId", h.requireUser, h.UpdateUser)
}
