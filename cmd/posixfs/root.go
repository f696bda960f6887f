package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/posixfs/pkg/posixfs"
	"github.com/arthur-debert/posixfs/pkg/posixfs/fatfs"
)

var (
	cfgFile   string
	rootDir   string
	verbosity int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "posixfs",
	Short: "A descriptor-based shell for FAT-style volumes",
	Long: `posixfs exposes a directory as a small FAT-style volume and runs file
operations against it through a POSIX-like descriptor layer: open, read,
write, seek, stat, and directory traversal all go through a fixed-size
descriptor table the way an embedded firmware target would drive them.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (TOML)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "volume root directory (default: current directory)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v, -vv, -vvv)")

	rootCmd.AddCommand(versionCmd)

	rootCmd.AddCommand(newLsCommand())
	rootCmd.AddCommand(newCatCommand())
	rootCmd.AddCommand(newStatCommand())
	rootCmd.AddCommand(newWriteCommand())
	rootCmd.AddCommand(newMkdirCommand())
	rootCmd.AddCommand(newRmCommand())
	rootCmd.AddCommand(newMvCommand())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Print the version number of posixfs`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("posixfs version %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

// newSession builds a session over the configured volume root with the
// host's stdin and stdout bound to the console descriptors.
func newSession() (*posixfs.Session, error) {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	root := rootDir
	if root == "" {
		root = cfg.Root
	}
	if root == "" {
		root = "."
	}

	level, err := logLevel(cfg)
	if err != nil {
		return nil, err
	}
	logger := posixfs.NewLogger(os.Stderr, level)

	s := posixfs.NewSession(fatfs.NewOSFS(root), posixfs.WithLogger(logger))

	in := make([]byte, 1)
	get := func() (byte, error) {
		if _, err := os.Stdin.Read(in); err != nil {
			return 0, err
		}
		return in[0], nil
	}
	put := func(c byte) error {
		_, err := os.Stdout.Write([]byte{c})
		return err
	}
	if _, err := s.RegisterDevice(get, put); err != nil {
		return nil, err
	}
	return s, nil
}

// logLevel resolves the effective log level: -v flags win over the config
// file, and the default is warnings only.
func logLevel(cfg *config) (zerolog.Level, error) {
	if verbosity > 0 {
		switch verbosity {
		case 1:
			return zerolog.InfoLevel, nil
		case 2:
			return zerolog.DebugLevel, nil
		default:
			return zerolog.TraceLevel, nil
		}
	}
	if cfg.LogLevel != "" {
		return posixfs.LogLevelFromString(cfg.LogLevel)
	}
	return zerolog.WarnLevel, nil
}
