package write

import (
	"fmt"
	"io"
	"os"

	"code.cloudfoundry.org/bytefmt"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/statesink/statesink/checkpoint"
	"github.com/statesink/statesink/utils"
	"github.com/statesink/statesink/utils/fs"
	"github.com/statesink/statesink/utils/log"
)

const (
	writeUsage     = "write"
	writeShortDesc = "Persists stdin as checkpoint state"
	writeLongDesc  = "This command streams stdin through a checkpoint commit stream " +
		"into the target directory and prints the resulting state handle. " +
		"Small state is reported inline, larger state as a file reference."
	writeExample = "cat state.bin | statesink write --dir /var/lib/checkpoints --threshold 64K"

	dirDesc       = "Existing directory to write checkpoint state into"
	thresholdDesc = "Largest state size kept inline, as a human readable size"
	configDesc    = "Path to a statesink YAML configuration file"
)

var (
	// Cmd is the write command.
	Cmd = &cobra.Command{
		Use:     writeUsage,
		Short:   writeShortDesc,
		Long:    writeLongDesc,
		Example: writeExample,
		RunE:    executeWrite,
	}
	flagDir       string
	flagThreshold string
	flagConfig    string
)

func init() {
	// Parse flags.
	Cmd.Flags().StringVarP(&flagDir, "dir", "d", "", dirDesc)
	Cmd.Flags().StringVarP(&flagThreshold, "threshold", "t", "", thresholdDesc)
	Cmd.Flags().StringVarP(&flagConfig, "config", "c", "", configDesc)
}

func executeWrite(cmd *cobra.Command, args []string) error {
	var dir string
	threshold := 0

	if flagConfig != "" {
		data, err := os.ReadFile(flagConfig)
		if err != nil {
			return errors.Wrap(err, "read config file")
		}
		var config utils.Config
		if err := config.Parse(data); err != nil {
			return errors.Wrap(err, "parse config file")
		}
		log.SetLevel(config.LogLevel)
		dir = config.RootDirectory
		threshold = config.InlineThreshold
	}
	if flagDir != "" {
		dir = flagDir
	}
	if flagThreshold != "" {
		n, err := bytefmt.ToBytes(flagThreshold)
		if err != nil {
			return errors.Wrapf(err, "invalid threshold %q", flagThreshold)
		}
		threshold = int(n)
	}
	if dir == "" {
		return errors.New("no target directory given, use --dir or --config")
	}

	factory, err := checkpoint.NewStreamFactory(fs.NewOSFileSystem(), dir, threshold)
	if err != nil {
		return err
	}
	stream, err := factory.CreateStream()
	if err != nil {
		return err
	}
	// discards the stream and its partial file when commit never ran
	defer stream.Close()

	if _, err := io.Copy(stream, os.Stdin); err != nil {
		return errors.Wrap(err, "write state from stdin")
	}

	handle, err := stream.Commit()
	if err != nil {
		return err
	}
	if handle == nil {
		fmt.Println("empty input, nothing persisted")
		return nil
	}
	fmt.Println(handle.String())
	return nil
}
