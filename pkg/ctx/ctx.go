package ctx

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Context is the shared handle passed to repos and services: the gorm
// connection plus the sugared logger.
type Context struct {
	DB  *gorm.DB
	Ctx context.Context
	Log *zap.SugaredLogger
}

func NewContext(ctx context.Context, db *gorm.DB, log *zap.SugaredLogger) *Context {
	return &Context{
		DB:  db,
		Ctx: ctx,
		Log: log,
	}
}

func (c *Context) GetCtx() context.Context {
	return c.Ctx
}

func (c *Context) GetDB() *gorm.DB {
	return c.DB
}
