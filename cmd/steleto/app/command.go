package app

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"

	"github.com/bjaus/steleto"
)

const (
	defaultConfigName = "steleto"
	envPrefix         = "STELETO"
)

// NewConvertCommand returns the root command.
func NewConvertCommand() *cobra.Command {
	o := NewConvertOptions()
	v := viper.New()
	var configFile string

	cmd := &cobra.Command{
		Use:   "steleto -i FILE -t FILE [flags]",
		Short: "Convert delimited text or JSON through a template",
		Long: `steleto reads tab-delimited (or otherwise delimited, or JSON) records and
renders them through a Go text/template. A template that defines HEADER,
RECORD and FOOTER renders the header once, the record section once per
record with .data and .options bound, and the footer once. Any other template
runs once with .data bound to all records.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(v, configFile); err != nil {
				return err
			}
			o.ApplyFrom(v)
			if errs := o.Validate(); len(errs) != 0 {
				return errors.Join(errs...)
			}
			defer klog.Flush()
			return Run(cmd.OutOrStdout(), o)
		},
	}

	fs := cmd.Flags()
	o.AddFlags(fs)
	fs.StringVar(&configFile, "config", "", "configuration `FILE`; default ./steleto.{yaml,json,toml} when present")

	gofs := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(gofs)
	fs.AddGoFlagSet(gofs)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// BindPFlags only fails for a nil flag set.
	_ = v.BindPFlags(fs)

	return cmd
}

func loadConfig(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(defaultConfigName)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			klog.V(2).InfoS("no configuration file found", "name", defaultConfigName)
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	klog.V(2).InfoS("loaded configuration", "file", v.ConfigFileUsed())
	return nil
}

// Run performs the conversion described by o, reporting progress to out.
func Run(out io.Writer, o *ConvertOptions) error {
	started := time.Now()

	cfg, err := o.Config()
	if err != nil {
		return err
	}
	input, err := os.ReadFile(cfg.SourceName)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	c, err := steleto.New(cfg, steleto.WithLogger(klog.Background().WithName("steleto")))
	if err != nil {
		return err
	}

	if cfg.Format.IsTemplate() {
		fmt.Fprintf(out, "Convert '%s' with template '%s'\n", cfg.SourceName, cfg.TemplateName)
	} else {
		fmt.Fprintf(out, "Convert '%s' to %s\n", cfg.SourceName, cfg.Format)
	}

	res, err := writeFile(cfg.DestinationName, func(w io.Writer) (steleto.Result, error) {
		return c.Convert(w, string(input))
	})
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}
	if n := len(res.Malformed); n > 0 {
		fmt.Fprintf(out, "%d malformed rows skipped\n", n)
	}
	fmt.Fprintf(out, "%d rows converted [time taken: %s]\n", res.Records, formatElapsed(time.Since(started)))
	return nil
}

func writeFile(name string, convert func(io.Writer) (steleto.Result, error)) (steleto.Result, error) {
	f, err := os.Create(name)
	if err != nil {
		return steleto.Result{}, err
	}
	bw := bufio.NewWriter(f)
	res, err := convert(bw)
	if ferr := bw.Flush(); err == nil {
		err = ferr
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return res, err
}

// formatElapsed renders d as hh:mm:ss.mmm.
func formatElapsed(d time.Duration) string {
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d.%03d", ms/3_600_000, ms/60_000%60, ms/1000%60, ms%1000)
}
