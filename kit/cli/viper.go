package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Opt is a single command-line option
type Opt struct {
	DestP   interface{} // pointer to the destination
	Flag    string
	Default interface{}
	Desc    string
	// Required fails the command when no flag, env var or config value
	// supplies the option.
	Required bool
}

// Program parses CLI options
type Program struct {
	// Run is invoked by cobra on execute.
	Run func() error
	// Name is the name of the program in help usage and the env var prefix.
	Name string
	// Short is the one line description shown in help.
	Short string
	// EnvPrefix overrides Name as the env var prefix, so subcommands can
	// share their parent's prefix.
	EnvPrefix string
	// Opts are the command line/env var options to the program
	Opts []Opt
}

// NewCommand creates a new cobra command to be executed that respects env vars
// and an optional config file.
//
// Uses the upper-case version of the program's name as a prefix
// to all environment variables. A config file (toml, yaml or json) is read
// from the path in <NAME>_CONFIG_PATH when that variable is set.
func NewCommand(v *viper.Viper, p *Program) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   p.Name,
		Short: p.Short,
		Args:  cobra.NoArgs,
	}

	prefix := p.EnvPrefix
	if prefix == "" {
		prefix = p.Name
	}
	prefix = strings.ToUpper(prefix)
	v.SetEnvPrefix(prefix)
	v.AutomaticEnv()
	// This normalizes "-" to an underscore in env names.
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if path := os.Getenv(prefix + "_CONFIG_PATH"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %q: %w", path, err)
		}
	}

	if err := BindOptions(v, cmd, p.Opts); err != nil {
		return nil, err
	}

	cmd.RunE = func(_ *cobra.Command, _ []string) error {
		if err := LoadOptions(v, p.Opts); err != nil {
			return err
		}
		if p.Run == nil {
			return nil
		}
		return p.Run()
	}

	return cmd, nil
}

// BindOptions adds opts to the specified command and automatically
// registers those options with viper.
func BindOptions(v *viper.Viper, cmd *cobra.Command, opts []Opt) error {
	for _, o := range opts {
		flags := cmd.Flags()
		switch destP := o.DestP.(type) {
		case *string:
			var d string
			if o.Default != nil {
				d = o.Default.(string)
			}
			flags.StringVar(destP, o.Flag, d, o.Desc)
		case *int:
			var d int
			if o.Default != nil {
				d = o.Default.(int)
			}
			flags.IntVar(destP, o.Flag, d, o.Desc)
		case *bool:
			var d bool
			if o.Default != nil {
				d = o.Default.(bool)
			}
			flags.BoolVar(destP, o.Flag, d, o.Desc)
		case *time.Duration:
			var d time.Duration
			if o.Default != nil {
				d = o.Default.(time.Duration)
			}
			flags.DurationVar(destP, o.Flag, d, o.Desc)
		case *[]string:
			var d []string
			if o.Default != nil {
				d = o.Default.([]string)
			}
			flags.StringSliceVar(destP, o.Flag, d, o.Desc)
		case *zapcore.Level:
			d := zapcore.InfoLevel
			if o.Default != nil {
				d = o.Default.(zapcore.Level)
			}
			LevelVar(flags, destP, o.Flag, d, o.Desc)
		default:
			return fmt.Errorf("unknown destination type %T for option %q", o.DestP, o.Flag)
		}

		if err := v.BindPFlag(o.Flag, flags.Lookup(o.Flag)); err != nil {
			return err
		}
	}
	return nil
}

// LoadOptions copies the resolved value of every option into its
// destination. Precedence is flag, env var, config file, then default.
func LoadOptions(v *viper.Viper, opts []Opt) error {
	for _, o := range opts {
		if o.Required && !v.IsSet(o.Flag) {
			return fmt.Errorf("option %q is required", o.Flag)
		}

		switch destP := o.DestP.(type) {
		case *string:
			*destP = v.GetString(o.Flag)
		case *int:
			*destP = v.GetInt(o.Flag)
		case *bool:
			*destP = v.GetBool(o.Flag)
		case *time.Duration:
			*destP = v.GetDuration(o.Flag)
		case *[]string:
			*destP = v.GetStringSlice(o.Flag)
		case *zapcore.Level:
			var l zapcore.Level
			if err := l.Set(v.GetString(o.Flag)); err != nil {
				return fmt.Errorf("option %q: %w", o.Flag, err)
			}
			*destP = l
		}
	}
	return nil
}
