package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "taxdesk.yaml", "-a", "http://localhost:8000/api"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c", "taxdesk.yaml"},
		},
		{
			name:         "long flag with equals",
			args:         []string{"--config=alt.json", "-d", "taxdesk.db"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=alt.json"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "flag without value at end is kept",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "next dash token is not a value",
			args:         []string{"-p", "-t", "5s"},
			allowedFlags: []string{"-p", "-t"},
			want:         []string{"-p", "-t", "5s"},
		},
		{
			name:         "repeated flag preserved in order",
			args:         []string{"-a", "one", "-a", "two"},
			allowedFlags: []string{"-a"},
			want:         []string{"-a", "one", "-a", "two"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigFileFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short -c", func(t *testing.T) {
		os.Args = []string{"taxdesk", "-c", "/etc/taxdesk.yaml"}
		assert.Equal(t, "/etc/taxdesk.yaml", ConfigFileFlags())
	})

	t.Run("long -config", func(t *testing.T) {
		os.Args = []string{"taxdesk", "-config", "/etc/taxdesk.json"}
		assert.Equal(t, "/etc/taxdesk.json", ConfigFileFlags())
	})

	t.Run("other flags ignored", func(t *testing.T) {
		os.Args = []string{"taxdesk", "-a", "http://x", "-p", "2s"}
		assert.Empty(t, ConfigFileFlags())
	})

	t.Run("double dash", func(t *testing.T) {
		assert.Equal(t, "x.toml", configFileFrom([]string{"--c", "x.toml"}))
		assert.Equal(t, "y.toml", configFileFrom([]string{"--config=y.toml", "--log-level", "debug"}))
	})

	t.Run("last wins", func(t *testing.T) {
		assert.Equal(t, "b.json", configFileFrom([]string{"-c", "a.json", "-config", "b.json"}))
	})
}
