// cmd.go - Haupt-CLI Setup und Root Command
// Hauptfunktionen: NewCLI, appendEnvDocs
package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/ethicalml/kompute-jni/envconfig"
)

// appendEnvDocs - Fuegt Umgebungsvariablen-Dokumentation zum Command hinzu
func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

// NewCLI - Erstellt das Haupt-CLI mit allen Commands
func NewCLI() *cobra.Command {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "kompute",
		Short:         "Logistic regression on Vulkan capable devices",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Run: func(cmd *cobra.Command, args []string) {
			if version, _ := cmd.Flags().GetBool("version"); version {
				versionHandler(cmd, args)
				return
			}

			cmd.Print(cmd.UsageString())
		},
	}

	rootCmd.Flags().BoolP("version", "v", false, "Show version information")

	// Commands erstellen
	serveCmd := newServeCmd()
	initCmd := newInitCmd()
	predictCmd := newPredictCmd()
	paramsCmd := newParamsCmd()
	particlesCmd := newParticlesCmd()
	devicesCmd := newDevicesCmd()
	runsCmd := newRunsCmd()

	// Environment-Dokumentation hinzufuegen
	envVars := envconfig.AsMap()
	envs := []envconfig.EnvVar{envVars["KOMPUTE_HOST"]}

	for _, cmd := range []*cobra.Command{
		serveCmd,
		initCmd,
		predictCmd,
		paramsCmd,
		particlesCmd,
		devicesCmd,
		runsCmd,
	} {
		switch cmd {
		case serveCmd:
			appendEnvDocs(cmd, []envconfig.EnvVar{
				envVars["KOMPUTE_DEBUG"],
				envVars["KOMPUTE_HOST"],
				envVars["KOMPUTE_ORIGINS"],
				envVars["KOMPUTE_DEVICE"],
				envVars["KOMPUTE_VK_INIT_RETRIES"],
				envVars["KOMPUTE_VK_INIT_DELAY"],
				envVars["KOMPUTE_ITERATIONS"],
				envVars["KOMPUTE_LEARNING_RATE"],
				envVars["KOMPUTE_NUM_PARALLEL"],
				envVars["KOMPUTE_HISTORY"],
				envVars["KOMPUTE_NOHISTORY"],
			})
		case predictCmd, paramsCmd:
			appendEnvDocs(cmd, []envconfig.EnvVar{
				envVars["KOMPUTE_HOST"],
				envVars["KOMPUTE_ITERATIONS"],
				envVars["KOMPUTE_LEARNING_RATE"],
			})
		default:
			appendEnvDocs(cmd, envs)
		}
	}

	rootCmd.AddCommand(
		serveCmd,
		initCmd,
		predictCmd,
		paramsCmd,
		particlesCmd,
		devicesCmd,
		runsCmd,
	)

	return rootCmd
}
