package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

func Test_NewCommand(t *testing.T) {
	config := map[string]string{
		// config values should be same as flags
		"bolt-path": "from-config.db",
		"key-type":  "string",
		"log-level": "debug",
	}

	tests := []struct {
		name      string
		envVarVal string
		args      []string
		expected  string
	}{
		{
			name:     "no vals reads from config",
			expected: "from-config.db",
		},
		{
			name:      "reads from env var",
			envVarVal: "from-env.db",
			expected:  "from-env.db",
		},
		{
			name:     "reads from flag",
			args:     []string{"--bolt-path=from-flag.db"},
			expected: "from-flag.db",
		},
		{
			name:      "flag has highest precedence",
			envVarVal: "from-env.db",
			args:      []string{"--bolt-path=from-flag.db"},
			expected:  "from-flag.db",
		},
	}

	for _, tt := range tests {
		for _, writer := range configWriters {
			t.Run(tt.name+"_"+writer.ext, func(t *testing.T) {
				confFile, err := writer.writeFn(t.TempDir(), config)
				require.NoError(t, err)

				t.Setenv("TEST_CONFIG_PATH", confFile)
				if tt.envVarVal != "" {
					t.Setenv("TEST_BOLT_PATH", tt.envVarVal)
				}

				var (
					boltPath string
					keyType  string
					timeout  time.Duration
					logLevel zapcore.Level
					ran      bool
				)
				program := &Program{
					Name: "test",
					Opts: []Opt{
						{DestP: &boltPath, Flag: "bolt-path", Required: true},
						{DestP: &keyType, Flag: "key-type", Default: "bytes"},
						{DestP: &timeout, Flag: "timeout", Default: time.Second},
						{DestP: &logLevel, Flag: "log-level", Default: zapcore.WarnLevel},
					},
					Run: func() error {
						ran = true
						return nil
					},
				}

				cmd, err := NewCommand(viper.New(), program)
				require.NoError(t, err)
				cmd.SetArgs(append([]string{}, tt.args...))
				require.NoError(t, cmd.Execute())

				assert.True(t, ran)
				require.Equal(t, tt.expected, boltPath)
				assert.Equal(t, "string", keyType)
				assert.Equal(t, time.Second, timeout)
				assert.Equal(t, zapcore.DebugLevel, logLevel)
			})
		}
	}
}

func Test_NewCommand_Required(t *testing.T) {
	var boltPath string
	cmd, err := NewCommand(viper.New(), &Program{
		Name: "required",
		Opts: []Opt{{DestP: &boltPath, Flag: "bolt-path", Required: true}},
		Run:  func() error { return nil },
	})
	require.NoError(t, err)
	cmd.SetArgs([]string{})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err = cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bolt-path")
}

func Test_BindOptions_UnknownType(t *testing.T) {
	var f float64
	_, err := NewCommand(viper.New(), &Program{
		Name: "bad",
		Opts: []Opt{{DestP: &f, Flag: "ratio"}},
	})
	assert.Error(t, err)
}

type configWriter func(dir string, config interface{}) (string, error)

type labeledWriter struct {
	ext     string
	writeFn configWriter
}

var configWriters = []labeledWriter{
	{ext: "toml", writeFn: writeTomlConfig},
	{ext: "yaml", writeFn: writeYamlConfig},
}

func writeTomlConfig(dir string, config interface{}) (string, error) {
	confFile := filepath.Join(dir, "config.toml")
	w, err := os.OpenFile(confFile, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return "", err
	}
	defer w.Close()

	if err := toml.NewEncoder(w).Encode(config); err != nil {
		return "", err
	}

	return confFile, nil
}

func writeYamlConfig(dir string, config interface{}) (string, error) {
	confFile := filepath.Join(dir, "config.yaml")
	w, err := os.OpenFile(confFile, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return "", err
	}
	defer w.Close()

	if err := yaml.NewEncoder(w).Encode(config); err != nil {
		return "", err
	}

	return confFile, nil
}
