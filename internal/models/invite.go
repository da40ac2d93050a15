package models

// InvitationCode — одноразовый код приглашения для регистрации
type InvitationCode struct {
	Code   string `json:"code"`
	IsUsed bool   `json:"is_used"`
}
