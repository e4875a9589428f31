package dto

import "github.com/shopspring/decimal"

// ListUsersRequest filtros de GET /api/admin/users.
type ListUsersRequest struct {
	PageRequest
	Status string `query:"status" validate:"omitempty,oneof=pending approved rejected revoked"`
}

// UserListResponse listado de cuentas con rol user.
type UserListResponse struct {
	Users []AccountResponse `json:"users"`
}

// UpdateStatusRequest cuerpo de PATCH /api/admin/users/:id.
// La validez del estado la decide el motor de ciclo de vida.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatusResponse resultado del cambio de estado.
type UpdateStatusResponse struct {
	Message string          `json:"message"`
	User    AccountResponse `json:"user"`
}

// StatsResponse conteos de cuentas con rol user.
// Invariante: TotalUsers == Pending + Approved + Rejected + Revoked.
type StatsResponse struct {
	TotalUsers    int             `json:"totalUsers"`
	PendingUsers  int             `json:"pendingUsers"`
	ApprovedUsers int             `json:"approvedUsers"`
	RejectedUsers int             `json:"rejectedUsers"`
	RevokedUsers  int             `json:"revokedUsers"`
	ApprovalRate  decimal.Decimal `json:"approvalRate"` // % de aprobadas sobre el total, 2 decimales
}
