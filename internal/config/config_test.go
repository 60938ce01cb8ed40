package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
	"github.com/yigit/studentapi/internal/config"
)

var configEnvVars = []string{
	"PORT", "SERVER_MODE", "STATIC_DIR", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT",
	"SERVER_IDLE_TIMEOUT", "SERVER_SHUTDOWN_TIMEOUT",
	"DATABASE_URL", "PGHOST", "PGPORT", "PGUSER", "PGPASSWORD", "PGDATABASE", "PGSSLMODE",
	"DB_MAX_CONNS", "DB_MIN_CONNS", "DB_CONN_MAX_LIFETIME", "DB_CONNECT_TIMEOUT", "DB_REQUIRE_ON_STARTUP",
	"LOG_LEVEL", "LOG_FORMAT", "METRICS_ENABLED", "METRICS_PATH",
}

func clearConfigEnvVars() {
	for _, k := range configEnvVars {
		_ = os.Unsetenv(k)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func TestLoadConfig(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		clearConfigEnvVars()
		dir := t.TempDir()
		missingEnv := filepath.Join(dir, "missing.env")
		convey.Reset(clearConfigEnvVars)

		convey.Convey("When no file and no environment is present", func() {
			cfg, err := config.LoadConfig(filepath.Join(dir, "absent.yaml"), missingEnv)

			convey.Convey("Then defaults apply", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Server.Port, convey.ShouldEqual, "3000")
				convey.So(cfg.Addr(), convey.ShouldEqual, ":3000")
				convey.So(cfg.Server.StaticDir, convey.ShouldEqual, "public")
				convey.So(cfg.Server.ShutdownTimeout, convey.ShouldEqual, 10*time.Second)
				convey.So(cfg.Database.MaxConns, convey.ShouldEqual, 10)
				convey.So(cfg.Database.RequireOnStartup, convey.ShouldBeFalse)
				convey.So(cfg.Metrics.Path, convey.ShouldEqual, "/metrics")
				convey.So(cfg.IsProduction(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When a YAML file is present", func() {
			path := writeFile(t, dir, "config.yaml", `
server:
  port: "8081"
  mode: production
  read_timeout: 3s
database:
  host: db.internal
  dbname: campus
  max_conns: 4
logging:
  level: debug
metrics:
  latency_buckets: [0.1, 0.5, 2]
`)
			cfg, err := config.LoadConfig(path, missingEnv)

			convey.Convey("Then file values override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Server.Port, convey.ShouldEqual, "8081")
				convey.So(cfg.IsProduction(), convey.ShouldBeTrue)
				convey.So(cfg.Server.ReadTimeout, convey.ShouldEqual, 3*time.Second)
				convey.So(cfg.Database.Host, convey.ShouldEqual, "db.internal")
				convey.So(cfg.Database.MaxConns, convey.ShouldEqual, 4)
				convey.So(cfg.Logging.Level, convey.ShouldEqual, "debug")
				convey.So(cfg.Metrics.LatencyBuckets, convey.ShouldResemble, []float64{0.1, 0.5, 2})
			})

			convey.Convey("And environment variables override the file", func() {
				_ = os.Setenv("PORT", "9000")
				_ = os.Setenv("PGHOST", "env-host")
				_ = os.Setenv("DB_CONN_MAX_LIFETIME", "15m")
				_ = os.Setenv("DB_REQUIRE_ON_STARTUP", "true")

				cfg, err := config.LoadConfig(path, missingEnv)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Server.Port, convey.ShouldEqual, "9000")
				convey.So(cfg.Database.Host, convey.ShouldEqual, "env-host")
				convey.So(cfg.Database.ConnMaxLifetime, convey.ShouldEqual, 15*time.Minute)
				convey.So(cfg.Database.RequireOnStartup, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a .env file is present", func() {
			envFile := writeFile(t, dir, ".env", "PORT=4000\nPGDATABASE=fromdotenv\n")

			convey.Convey("Then its values are used", func() {
				cfg, err := config.LoadConfig("", envFile)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Server.Port, convey.ShouldEqual, "4000")
				convey.So(cfg.Database.DBName, convey.ShouldEqual, "fromdotenv")
			})

			convey.Convey("Then real environment variables win over it", func() {
				_ = os.Setenv("PORT", "5000")
				cfg, err := config.LoadConfig("", envFile)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Server.Port, convey.ShouldEqual, "5000")
			})
		})

		convey.Convey("When values are invalid", func() {
			convey.Convey("A non-numeric port is rejected", func() {
				_ = os.Setenv("PORT", "http")
				_, err := config.LoadConfig("", missingEnv)
				convey.So(err, convey.ShouldNotBeNil)
			})

			convey.Convey("An unparsable duration is rejected", func() {
				_ = os.Setenv("SERVER_READ_TIMEOUT", "soon")
				_, err := config.LoadConfig("", missingEnv)
				convey.So(err, convey.ShouldNotBeNil)
			})

			convey.Convey("min_conns above max_conns is rejected", func() {
				_ = os.Setenv("DB_MAX_CONNS", "2")
				_ = os.Setenv("DB_MIN_CONNS", "3")
				_, err := config.LoadConfig("", missingEnv)
				convey.So(err, convey.ShouldNotBeNil)
			})

			convey.Convey("Unordered latency buckets are rejected", func() {
				path := writeFile(t, dir, "buckets.yaml", "metrics:\n  latency_buckets: [1, 0.5]\n")
				_, err := config.LoadConfig(path, missingEnv)
				convey.So(err, convey.ShouldNotBeNil)
			})

			convey.Convey("Malformed YAML is rejected", func() {
				path := writeFile(t, dir, "bad.yaml", "server: [unterminated")
				_, err := config.LoadConfig(path, missingEnv)
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestGetPostgresConnectionString(t *testing.T) {
	convey.Convey("Given database settings", t, func() {
		clearConfigEnvVars()
		convey.Reset(clearConfigEnvVars)

		cfg, err := config.LoadConfig("", filepath.Join(t.TempDir(), "none.env"))
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Discrete fields are assembled into a URL", func() {
			cfg.Database.User = "app"
			cfg.Database.Password = "p@ss word"
			cfg.Database.Host = "db"
			cfg.Database.Port = "6543"
			cfg.Database.DBName = "university"
			cfg.Database.SSLMode = "require"

			convey.So(cfg.GetPostgresConnectionString(), convey.ShouldEqual,
				"postgres://app:p%40ss%20word@db:6543/university?sslmode=require")
		})

		convey.Convey("DATABASE_URL takes precedence", func() {
			cfg.Database.URL = "postgres://u:p@h/d"
			convey.So(cfg.GetPostgresConnectionString(), convey.ShouldEqual, "postgres://u:p@h/d")
		})
	})
}
