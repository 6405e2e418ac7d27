package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nxadm/tail"
	"github.com/spf13/cobra"

	"batodl/config"
)

var (
	followLogs bool
	logLines   int
	logFilter  string
	logsCmd    = &cobra.Command{
		Use:   "logs",
		Short: "Show the batodl log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.LogPath(settings.Dir())
			out := cmd.OutOrStdout()

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("error opening log file: %w", err)
			}
			lines, err := lastLines(f, logLines, logFilter)
			f.Close()
			if err != nil {
				return err
			}
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}

			if !followLogs {
				return nil
			}
			return followLog(cmd.Context(), path, out, logFilter, false)
		},
	}
)

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().BoolVarP(&followLogs, "follow", "f", false, "Keep printing new log lines")
	logsCmd.Flags().IntVarP(&logLines, "lines", "n", 100, "Number of trailing lines to print")
	logsCmd.Flags().StringVar(&logFilter, "grep", "", "Only show lines containing this text (case-insensitive)")
}

// lastLines returns the final n lines of r that contain filter.
func lastLines(r io.Reader, n int, filter string) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	filter = strings.ToLower(filter)

	ring := make([]string, 0, n)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if filter != "" && !strings.Contains(strings.ToLower(line), filter) {
			continue
		}
		if len(ring) == n {
			ring = append(ring[:0], ring[1:]...)
		}
		ring = append(ring, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading log file: %w", err)
	}
	return ring, nil
}

// followLog prints lines appended to path until ctx is cancelled. Rotation is
// followed by reopening the file.
func followLog(ctx context.Context, path string, out io.Writer, filter string, poll bool) error {
	t, err := tail.TailFile(path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Poll:      poll,
		Location:  &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("error following log file: %w", err)
	}
	defer t.Cleanup()
	defer t.Stop()

	filter = strings.ToLower(filter)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-t.Lines:
			if !ok {
				return t.Err()
			}
			if line.Err != nil {
				return line.Err
			}
			if filter != "" && !strings.Contains(strings.ToLower(line.Text), filter) {
				continue
			}
			fmt.Fprintln(out, line.Text)
		}
	}
}
