package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/agentcore/internal/taskqueue"
)

func newQueueCmd() *cobra.Command {
	cmd := &cobra.Command{
 Use: "queue",
 Short: "Inspect and manage the task queue",
	}
	cmd.AddCommand(newQueueAddCmd())
	cmd.AddCommand(newQueueListCmd())
	cmd.AddCommand(newQueueNextCmd())
	return cmd
}

func newQueueAddCmd() *cobra.Command {
	var (
 inputs []string
 acceptance string
 parentID string
	)
	cmd := &cobra.Command{
 Use: "add <objective>",
 Short: "Add a task to the queue",
 Args: cobra.MinimumNArgs(1),
 RunE: func(cmd *cobra.Command, args []string) error {
 d, err := newDeps(".")
 if err != nil {
 return err
 }
 defer func() { _ = d.metrics.Close() }()
 id, err := d.queue.AddTask(strings.Join(args, " "), inputs, acceptance, parentID, taskqueue.Budget{}, nil)
 if err != nil {
 return fmt.Errorf("failed to add task: %w", err)
 }
 _, _ = fmt.Fprintln(cmd.OutOrStdout(), id)
 return nil
 },
	}
	cmd.Flags().StringSliceVar(&inputs, "input", nil, "Reference input for the task (repeatable)")
	cmd.Flags().StringVar(&acceptance, "acceptance", "", "Acceptance criteria")
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent task ID")
	return cmd
}

func newQueueListCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
 Use: "list",
 Short: "List queued tasks",
 RunE: func(cmd *cobra.Command, _ []string) error {
 d, err := newDeps(".")
 if err != nil {
 return err
 }
 defer func() { _ = d.metrics.Close() }()
 tasks := d.queue.List(taskqueue.Status(status))
 for _, t := range tasks {
 _, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", t.ID, t.Status, t.Objective)
 }
 return nil
 },
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (queued, running, done, failed)")
	return cmd
}

func newQueueNextCmd() *cobra.Command {
	return &cobra.Command{
 Use: "next",
 Short: "Lease the next queued task",
 RunE: func(cmd *cobra.Command, _ []string) error {
 d, err := newDeps(".")
 if err != nil {
 return err
 }
 defer func() { _ = d.metrics.Close() }()
 task, ok, err := d.queue.GetNext()
 if err != nil {
 return fmt.Errorf("failed to get next task: %w", err)
 }
 if !ok {
 _, _ = fmt.Fprintln(cmd.OutOrStdout(), "No queued tasks.")
 return nil
 }
 _, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", task.ID, task.Objective)
 return nil
 },
	}
}
