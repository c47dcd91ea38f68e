package repo

import (
	"github.com/assetdesk/assetdesk/internal/engine/model"
	"github.com/assetdesk/assetdesk/pkg/ctx"
)

// IAssetRepository is the resource-status lookup consumed by the resolution
// engine's liveness rule.
type IAssetRepository interface {
	GetStatus(assetId string) (model.AssetStatus, error)
}

type AssetRepo struct {
	Ctx *ctx.Context
}

func NewAssetRepo(ctx *ctx.Context) IAssetRepository {
	return &AssetRepo{Ctx: ctx}
}

func (r *AssetRepo) GetStatus(assetId string) (model.AssetStatus, error) {
	var asset model.Asset
	err := r.Ctx.DB.Select("status").Where("asset_id = ?", assetId).First(&asset).Error
	if err != nil {
		return "", err
	}
	return asset.Status, nil
}

// StaticAssetStatus is the stub used when no asset registry is deployed; it
// reports every resource as active.
type StaticAssetStatus struct{}

func (StaticAssetStatus) GetStatus(string) (model.AssetStatus, error) {
	return model.AssetActive, nil
}
