package sqlchain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDSNBuilder_Build_Basic(t *testing.T) {
	dsn := NewDSNBuilder().
		Host("127.0.0.1").
		Port(3306).
		Username("root").
		Password("secret").
		Database("app").
		Build()

	assert.Equal(t, "root:secret@tcp(127.0.0.1:3306)/app", dsn)
}

func TestDSNBuilder_Build_NoCredentialsNoDatabase(t *testing.T) {
	dsn := NewDSNBuilder().Host("db").Port(3306).Build()
	assert.Equal(t, "tcp(db:3306)/", dsn)
}

func TestDSNBuilder_Build_ParamsIncludesEachSetting(t *testing.T) {
	dsn := NewDSNBuilder().
		Host("db").Port(3306).
		RequireTLS().
		SetTimeout(5 * time.Second).
		SetCharset("utf8mb4").
		EnableParseTime().
		SetLocation("UTC").
		SetParam("interpolateParams", "true").
		Build()

	assert.Contains(t, dsn, "tcp(db:3306)/")
	assert.Contains(t, dsn, "tls=true")
	assert.Contains(t, dsn, "timeout=5s")
	assert.Contains(t, dsn, "charset=utf8mb4")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "loc=UTC")
	assert.Contains(t, dsn, "interpolateParams=true")
}

func TestFormatDSNDuration(t *testing.T) {
	assert.Equal(t, "500ms", formatDSNDuration(500*time.Millisecond))
	assert.Equal(t, "5s", formatDSNDuration(5*time.Second))
}

func TestDsnFromConfig_AppliesProductionLeaningDefaults(t *testing.T) {
	dsn := dsnFromConfig(Config{Host: "127.0.0.1", Port: 3306, User: "root", Pass: "pw", DB: "app"})

	assert.Contains(t, dsn, "root:pw@tcp(127.0.0.1:3306)/app")
	assert.Contains(t, dsn, "charset=utf8mb4")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "loc=UTC")
}
