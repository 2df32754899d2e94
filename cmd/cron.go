package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"stockmaster.GO/config"
	"stockmaster.GO/cron"
	_ "stockmaster.GO/cron/jobs"
)

var jobName string

var cronStartCmd = &cobra.Command{
	Use:   "cron:start",
	Short: "Start the cron scheduler or run a single job by name",
	Run: func(cmd *cobra.Command, args []string) {
		if jobName != "" {
			name := strings.ToLower(jobName)
			if cronJob, ok := config.CronJobs[name]; ok {
				fmt.Printf("running job %s\n", name)
				cronJob.Job(args...)
				return
			}
			if j, ok := cron.Jobs()[name]; ok {
				fmt.Printf("running job %s\n", name)
				j.Run(args...)
				return
			}
			fmt.Printf("unknown job %s (available: %s)\n", jobName, strings.Join(cron.Names(), ", "))
			os.Exit(1)
		}
		c := cron.StartCron()
		defer c.Stop()
		fmt.Println("cron scheduler running, Ctrl+C to exit")
		select {}
	},
}

func init() {
	cronStartCmd.Flags().StringVarP(&jobName, "job", "j", "", "Run a single cron job by name and exit")
	rootCmd.AddCommand(cronStartCmd)
} 