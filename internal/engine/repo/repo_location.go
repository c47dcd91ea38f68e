package repo

import (
	"github.com/assetdesk/assetdesk/internal/engine/model"
	"github.com/assetdesk/assetdesk/pkg/ctx"
)

type IProjectRepository interface {
	GetByProjectId(projectId string) (*model.Project, error)
}

type ProjectRepo struct {
	Ctx *ctx.Context
}

func NewProjectRepo(ctx *ctx.Context) IProjectRepository {
	return &ProjectRepo{Ctx: ctx}
}

func (r *ProjectRepo) GetByProjectId(projectId string) (*model.Project, error) {
	var project model.Project
	err := r.Ctx.DB.Where("project_id = ? AND is_enabled = ?", projectId, 1).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

type ILocationRepository interface {
	GetByLocationId(locationId string) (*model.Location, error)
	List(pageNum, pageSize int) ([]model.Location, int64, error)
}

type LocationRepo struct {
	Ctx *ctx.Context
}

func NewLocationRepo(ctx *ctx.Context) ILocationRepository {
	return &LocationRepo{Ctx: ctx}
}

func (r *LocationRepo) GetByLocationId(locationId string) (*model.Location, error) {
	var location model.Location
	err := r.Ctx.DB.Where("location_id = ?", locationId).First(&location).Error
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *LocationRepo) List(pageNum, pageSize int) ([]model.Location, int64, error) {
	var locations []model.Location
	var count int64
	offset := (pageNum - 1) * pageSize

	if err := r.Ctx.DB.Model(&model.Location{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if err := r.Ctx.DB.Offset(offset).Limit(pageSize).
		Order("region ASC, state ASC, plaza ASC, office ASC").
		Find(&locations).Error; err != nil {
		return nil, 0, err
	}
	return locations, count, nil
}
