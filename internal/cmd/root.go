package cmd

import (
	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-flakeid/internal/config"
	"github.com/spf13/cobra"
)

// NewRoot constructs the root command and registers all sub commands. log may
// be nil.
func NewRoot(log logger.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:          "flakeid",
		Short:        "Generate and decode time ordered unique ids",
		SilenceUsage: true,
	}
	flags := root.PersistentFlags()
	flags.String("config", "", "JSON or YAML configuration file")
	flags.Uint64("machine-id", 0, "Machine id, overrides derivation")
	flags.String("worker-cidr", "", "Derive the machine id from the pod ip host part selected by this CIDR")
	flags.String("pod-ip", "", "Private ip of this pod, used with --worker-cidr")
	flags.Bool("host-id", false, "Derive the machine id by hashing the host id")

	root.AddCommand(newGenCommand(log))
	root.AddCommand(newGen128Command(log))
	root.AddCommand(newDecodeCommand())
	root.AddCommand(newDecode128Command())
	root.AddCommand(newMachineIDCommand())
	root.AddCommand(newBenchCommand(log))
	return root
}

// loadConfig layers the config file, the environment and the persistent flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	config.FromEnv(&cfg)

	if flags.Changed("machine-id") {
		id, _ := flags.GetUint64("machine-id")
		cfg.MachineID = &id
	}
	if flags.Changed("worker-cidr") {
		cfg.WorkerCIDR, _ = flags.GetString("worker-cidr")
	}
	if flags.Changed("pod-ip") {
		cfg.PodIP, _ = flags.GetString("pod-ip")
	}
	if flags.Changed("host-id") {
		cfg.UseHostID, _ = flags.GetBool("host-id")
	}
	if flags.Changed("unsigned") {
		cfg.Unsigned, _ = flags.GetBool("unsigned")
	}
	if flags.Changed("wait") {
		cfg.WaitOnExhaustion, _ = flags.GetBool("wait")
	}
	return cfg, nil
}
