package main

import (
	"encoding/json"
	"fmt"

	"go-rota/internal/attendance"
	"go-rota/internal/config"
	"go-rota/internal/domain"
	"go-rota/internal/messaging/kafka"
	"go-rota/internal/payroll"
	"go-rota/internal/shared/connection"
	"go-rota/internal/worker"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// serviceFactory returns the payroll service and a func releasing its connections.
type serviceFactory func() (payroll.Service, func(), error)

func connectPayroll() (payroll.Service, func(), error) {
	cfg := config.Load()
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, cfg.ConnectRetries)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, err
	}

	svc := payroll.NewServiceWithOutbox(
		sqlDB,
		payroll.NewRepository(gormDB),
		attendance.NewRepository(gormDB),
		worker.NewRateReader(worker.NewRepository(gormDB)),
		kafka.NewOutboxRepository(sqlDB),
	)
	return svc, func() { _ = sqlDB.Close() }, nil
}

func newRootCmd(factory serviceFactory) *cobra.Command {
	var actorID string
	var svc payroll.Service
	var release func()

	root := &cobra.Command{
		Use:           "payrollctl",
		Short:         "Operate payroll runs outside the HTTP API",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			svc, release, err = factory()
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if release != nil {
				release()
			}
		},
	}
	root.PersistentFlags().StringVar(&actorID, "actor", "", "Admin user id recorded on runs and deductions")

	actor := func() domain.Actor {
		return domain.Actor{ID: actorID, Role: domain.RoleAdmin}
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a draft payroll run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, _ := cmd.Flags().GetString("start")
			end, _ := cmd.Flags().GetString("end")
			resp, err := svc.CreateRun(cmd.Context(), actor(), payroll.CreateRunRequest{StartDate: start, EndDate: end})
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
	createCmd.Flags().String("start", "", "First day of the run (YYYY-MM-DD)")
	createCmd.Flags().String("end", "", "Last day of the run (YYYY-MM-DD)")
	_ = createCmd.MarkFlagRequired("start")
	_ = createCmd.MarkFlagRequired("end")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List payroll runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			resp, err := svc.GetAllRuns(cmd.Context(), payroll.GetRunsFilterRequest{Status: status})
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
	listCmd.Flags().String("status", "", "Filter by status (draft, processing, finalized)")

	processCmd := &cobra.Command{
		Use:   "process RUN_ID",
		Short: "Generate payslips for a draft run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := svc.ProcessRun(cmd.Context(), actor(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}

	finalizeCmd := &cobra.Command{
		Use:   "finalize RUN_ID",
		Short: "Finalize a processed run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := svc.FinalizeRun(cmd.Context(), actor(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}

	deductCmd := &cobra.Command{
		Use:   "deduct PAYSLIP_ID",
		Short: "Add a deduction to a payslip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawAmount, _ := cmd.Flags().GetString("amount")
			reason, _ := cmd.Flags().GetString("reason")
			itemType, _ := cmd.Flags().GetString("type")

			amount, err := decimal.NewFromString(rawAmount)
			if err != nil {
				return fmt.Errorf("invalid --amount %q: %w", rawAmount, err)
			}
			resp, err := svc.AddDeduction(cmd.Context(), actor(), args[0], payroll.DeductionRequest{
				Amount: amount,
				Reason: reason,
				Type:   itemType,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
	deductCmd.Flags().String("amount", "", "Amount to deduct, e.g. 50.00")
	deductCmd.Flags().String("reason", "", "Reason shown on the payslip")
	deductCmd.Flags().String("type", "", "Line item type (default deduction)")
	_ = deductCmd.MarkFlagRequired("amount")
	_ = deductCmd.MarkFlagRequired("reason")

	root.AddCommand(createCmd, listCmd, processCmd, finalizeCmd, deductCmd)
	return root
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
