package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/engine/collection"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/engine/schedule"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Pré-visualiza o plano de parcelas de um empréstimo",
	Long: `Monta o plano de parcelas para um principal, uma quantidade de parcelas
e uma taxa mensal, sem tocar no banco. Útil para conferir valores antes
de aprovar um empréstimo.`,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().String("principal", "", "Valor do principal (obrigatório)")
	scheduleCmd.MarkFlagRequired("principal")
	scheduleCmd.Flags().Int("installments", 1, "Quantidade de parcelas")
	scheduleCmd.Flags().String("rate", "0", "Juros mensais (%)")
	scheduleCmd.Flags().String("start", "", "Data de início (YYYY-MM-DD, padrão: hoje)")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	rawPrincipal, _ := cmd.Flags().GetString("principal")
	installmentCount, _ := cmd.Flags().GetInt("installments")
	rawRate, _ := cmd.Flags().GetString("rate")
	rawStart, _ := cmd.Flags().GetString("start")

	principal, err := decimal.NewFromString(rawPrincipal)
	if err != nil {
		return fmt.Errorf("invalid --principal %q: %w", rawPrincipal, err)
	}
	rate, err := decimal.NewFromString(rawRate)
	if err != nil {
		return fmt.Errorf("invalid --rate %q: %w", rawRate, err)
	}
	start := time.Now().UTC()
	if rawStart != "" {
		if start, err = time.Parse("2006-01-02", rawStart); err != nil {
			return fmt.Errorf("invalid --start %q, expected YYYY-MM-DD: %w", rawStart, err)
		}
	}

	installments, err := schedule.NewBuilder().Build(schedule.BuildRequest{
		LoanID:           uuid.New().String(),
		Principal:        principal,
		InstallmentCount: installmentCount,
		MonthlyRate:      rate,
		StartDate:        start,
	})
	if err != nil {
		return err
	}

	total := schedule.TotalAmount(principal, rate)
	fmt.Fprintf(os.Stdout, "Principal %s + %s%% = %s\n",
		collection.FormatMoney(principal), rate.String(), collection.FormatMoney(total))
	for _, inst := range installments {
		fmt.Fprintf(os.Stdout, "  %2d. %s  %s\n",
			inst.SequenceIndex, inst.DueDate.Format("02/01/2006"), collection.FormatMoney(inst.Amount))
	}
	return nil
}
