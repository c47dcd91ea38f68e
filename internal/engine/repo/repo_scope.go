package repo

import (
	"github.com/assetdesk/assetdesk/internal/engine/model"
	"github.com/assetdesk/assetdesk/pkg/ctx"
)

type IScopeRepository interface {
	ListByUser(userId string) ([]model.UserScope, error)
}

type ScopeRepo struct {
	Ctx *ctx.Context
}

func NewScopeRepo(ctx *ctx.Context) IScopeRepository {
	return &ScopeRepo{Ctx: ctx}
}

func (r *ScopeRepo) ListByUser(userId string) ([]model.UserScope, error) {
	var scopes []model.UserScope
	err := r.Ctx.DB.Where("user_id = ?", userId).Find(&scopes).Error
	return scopes, err
}
