package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestDefaultConfigIsValid(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	is.NoErr(cfg.Validate())
	is.Equal(cfg.Upload.FieldName, "images")
	is.Equal(cfg.Upload.MaxFiles, 10)
	is.Equal(cfg.Upload.MaxFileSize, int64(5*1024*1024))
	is.True(cfg.Upload.BodyLimit() > int(cfg.Upload.MaxFileSize)*cfg.Upload.MaxFiles)
}

func TestFileThenEnv(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	is.NoErr(os.WriteFile(path, []byte(`
env: production
port: "8080"
db:
  driver: sqlite
  path: /tmp/x.db
upload:
  max_files: 4
jwt:
  secret: from-file
  ttl: 2h
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9090")
	t.Setenv("UPLOAD_ALLOWED_MIME_TYPES", "image/png,image/webp")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load()
	is.NoErr(err)
	is.Equal(cfg.Env, "production")
	is.Equal(cfg.Port, "9090") // env beats file
	is.Equal(cfg.DB.Driver, "sqlite")
	is.Equal(cfg.Upload.MaxFiles, 4)
	is.Equal(cfg.Upload.FieldName, "images") // default kept
	is.Equal(cfg.JWT.Secret, "from-file")
	is.Equal(cfg.JWT.TTL, 2*time.Hour)
	is.Equal(cfg.Upload.AllowedMIMETypes, []string{"image/png", "image/webp"})
	is.Equal(cfg.Kafka.Brokers, []string{"k1:9092", "k2:9092"})
}

func TestValidate(t *testing.T) {
	is := is.New(t)

	cfg := DefaultConfig()
	cfg.DB.Driver = "oracle"
	is.True(cfg.Validate() != nil)

	cfg = DefaultConfig()
	cfg.Upload.MaxFiles = 0
	is.True(cfg.Validate() != nil)

	cfg = DefaultConfig()
	cfg.Env = "production"
	is.True(cfg.Validate() != nil) // no JWT secret
	cfg.JWT.Secret = "s"
	is.NoErr(cfg.Validate())
}
