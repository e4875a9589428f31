package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/smartsignal-api/internal/application/dto"
	"github.com/jhoicas/smartsignal-api/internal/application/usecase"
)

// AdminHandler expone la administración de cuentas (solo rol admin).
type AdminHandler struct {
	uc  *usecase.AdminUseCase
	log zerolog.Logger
}

// NewAdminHandler construye el handler.
func NewAdminHandler(uc *usecase.AdminUseCase, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{uc: uc, log: log}
}

// ListUsers godoc
// @Summary      Listar usuarios
// @Description  Solo cuentas con rol user; nunca incluye el hash de la contraseña.
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | approved | rejected | revoked"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.UserListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	in := dto.ListUsersRequest{
		PageRequest: dto.PageRequest{
			Limit:  c.QueryInt("limit", 0),
			Offset: c.QueryInt("offset", 0),
		},
		Status: c.Query("status"),
	}
	out, err := h.uc.ListUsers(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de un usuario
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del usuario"
// @Param        body  body  dto.UpdateStatusRequest  true  "approved | rejected | revoked"
// @Success      200   {object}  dto.UpdateStatusResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/users/{id} [patch]
func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	h.log.Info().
		Str("admin_id", GetUserID(c)).
		Str("account_id", id).
		Str("status", in.Status).
		Msg("estado de usuario modificado por administrador")
	return c.JSON(out)
}

// Stats godoc
// @Summary      Conteo de usuarios por estado
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StatsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/stats [get]
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// RosterPDF godoc
// @Summary      Reporte PDF de usuarios
// @Tags         admin
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/reports/users.pdf [get]
func (h *AdminHandler) RosterPDF(c *fiber.Ctx) error {
	doc, err := h.uc.RosterPDF(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="usuarios.pdf"`)
	return c.Send(doc)
}
