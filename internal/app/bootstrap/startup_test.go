package bootstrap

import (
	"strings"
	"testing"
	"time"

	grouprolestore "github.com/dalemusser/grouppages/internal/app/store/grouproles"
	nodetypestore "github.com/dalemusser/grouppages/internal/app/store/nodetypes"
	"github.com/dalemusser/grouppages/internal/app/system/ogmarkup"
	"github.com/dalemusser/grouppages/internal/domain/models"
	"github.com/dalemusser/grouppages/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

// lookups returns key readers over a fixed map, falling back to the
// declared defaults.
func lookups(values map[string]string) (func(string) string, func(string, time.Duration) time.Duration) {
	str := func(key string) string {
		if v, ok := values[key]; ok {
			return v
		}
		for _, k := range appConfigKeys {
			if k.Name == key {
				if s, ok := k.Default.(string); ok {
					return s
				}
			}
		}
		return ""
	}
	dur := func(key string, def time.Duration) time.Duration {
		d, err := time.ParseDuration(str(key))
		if err != nil {
			return def
		}
		return d
	}
	return str, dur
}

func TestBuildAppConfig_Defaults(t *testing.T) {
	cfg, err := buildAppConfig(lookups(nil))
	if err != nil {
		t.Fatalf("buildAppConfig failed: %v", err)
	}
	if cfg.BlockedPolicy != ogmarkup.BlockedSuppress {
		t.Errorf("BlockedPolicy: got %q", cfg.BlockedPolicy)
	}
	if cfg.SubscribeMode != ogmarkup.SubscribeDistinct {
		t.Errorf("SubscribeMode: got %q", cfg.SubscribeMode)
	}
	if cfg.SiteLocation != time.UTC {
		t.Errorf("SiteLocation: got %v", cfg.SiteLocation)
	}
	if cfg.LabelCacheTTL != 5*time.Minute {
		t.Errorf("LabelCacheTTL: got %v", cfg.LabelCacheTTL)
	}
	if cfg.SessionName != "grouppages-session" {
		t.Errorf("SessionName: got %q", cfg.SessionName)
	}
}

func TestBuildAppConfig_Overrides(t *testing.T) {
	cfg, err := buildAppConfig(lookups(map[string]string{
		"blocked_policy":  "ignore",
		"subscribe_mode":  "collapsed",
		"site_timezone":   "America/Chicago",
		"label_cache_ttl": "0s",
	}))
	if err != nil {
		t.Fatalf("buildAppConfig failed: %v", err)
	}
	if cfg.BlockedPolicy != ogmarkup.BlockedIgnore {
		t.Errorf("BlockedPolicy: got %q", cfg.BlockedPolicy)
	}
	if cfg.SubscribeMode != ogmarkup.SubscribeCollapsed {
		t.Errorf("SubscribeMode: got %q", cfg.SubscribeMode)
	}
	if cfg.SiteLocation.String() != "America/Chicago" {
		t.Errorf("SiteLocation: got %v", cfg.SiteLocation)
	}
	if cfg.LabelCacheTTL != 0 {
		t.Errorf("LabelCacheTTL: got %v", cfg.LabelCacheTTL)
	}
}

func TestBuildAppConfig_RejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"blocked policy": {"blocked_policy": "hide"},
		"subscribe mode": {"subscribe_mode": "loud"},
		"time zone":      {"site_timezone": "Mars/Olympus"},
	}
	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := buildAppConfig(lookups(values)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func validConfig() AppConfig {
	cfg, _ := buildAppConfig(lookups(nil))
	return cfg
}

func TestValidateConfig_AcceptsDefaults(t *testing.T) {
	if err := ValidateConfig(&config.CoreConfig{Env: "dev"}, validConfig(), testLogger()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateConfig_Rejects(t *testing.T) {
	badURI := validConfig()
	badURI.MongoURI = ""

	shortKey := validConfig()
	shortKey.CSRFKey = "short"

	noDB := validConfig()
	noDB.MongoDatabase = ""

	cases := []struct {
		name string
		env  string
		cfg  AppConfig
		want string
	}{
		{"mongo uri", "dev", badURI, "MongoDB URI"},
		{"csrf key", "dev", shortKey, "csrf_key"},
		{"database", "dev", noDB, "mongo_database"},
		{"default session key in prod", "prod", validConfig(), "session_key"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateConfig(&config.CoreConfig{Env: tc.env}, tc.cfg, testLogger())
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestSeedDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	if err := seedDefaults(ctx, deps, testLogger()); err != nil {
		t.Fatalf("seedDefaults failed: %v", err)
	}

	label, err := nodetypestore.New(db, 0).Label(ctx, "group")
	if err != nil {
		t.Fatalf("Label failed: %v", err)
	}
	if label != "Group" {
		t.Errorf("label: got %q, want %q", label, "Group")
	}

	role, err := grouprolestore.New(db).Get(ctx, "group", models.RoleNonMember)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !role.Has(models.PermSubscribe) {
		t.Errorf("non-member should have %q", models.PermSubscribe)
	}
}

func TestSeedDefaults_KeepsExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	roles := grouprolestore.New(db)
	if err := roles.SetPermissions(ctx, "group", models.RoleNonMember, []string{models.PermSubscribeWithoutApproval}); err != nil {
		t.Fatalf("SetPermissions failed: %v", err)
	}

	if err := seedDefaults(ctx, DBDeps{MongoDatabase: db}, testLogger()); err != nil {
		t.Fatalf("seedDefaults failed: %v", err)
	}

	role, err := roles.Get(ctx, "group", models.RoleNonMember)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if role.Has(models.PermSubscribe) || !role.Has(models.PermSubscribeWithoutApproval) {
		t.Errorf("existing permissions overwritten: %v", role.Permissions)
	}
}
