// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/grouppages/internal/app/resources"
	grouprolestore "github.com/dalemusser/grouppages/internal/app/store/grouproles"
	nodetypestore "github.com/dalemusser/grouppages/internal/app/store/nodetypes"
	"github.com/dalemusser/grouppages/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup loads shared templates and seeds the reference data a fresh
// database needs: the "group" node type label and the default group
// role permissions. Existing documents are left alone.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()
	return seedDefaults(ctx, deps, logger)
}

func seedDefaults(ctx context.Context, deps DBDeps, logger *zap.Logger) error {
	types := nodetypestore.New(deps.MongoDatabase, 0)
	if err := types.EnsureDefault(ctx, models.NodeType{Bundle: "group", Label: "Group"}); err != nil {
		return fmt.Errorf("seed node type: %w", err)
	}

	roles := grouprolestore.New(deps.MongoDatabase)
	if err := roles.EnsureDefault(ctx, "group", models.RoleNonMember, []string{models.PermSubscribe}); err != nil {
		return fmt.Errorf("seed non-member role: %w", err)
	}
	if err := roles.EnsureDefault(ctx, "group", models.RoleMember, []string{}); err != nil {
		return fmt.Errorf("seed member role: %w", err)
	}

	logger.Info("default node type and group roles ensured")
	return nil
}
