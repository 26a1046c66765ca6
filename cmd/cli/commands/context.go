package commands

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ewhitmore/staffroster/internal/config"
	"github.com/ewhitmore/staffroster/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg    *config.Config
	DB     *postgres.DB
	Logger *zap.Logger
	Ctx    context.Context
	OrgID  uuid.UUID
}
