package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/common/database"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/engine/accrual"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/engine/collection"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/engine/rates"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/engine/renegotiation"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/repository"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simula uma renegociação de dívida",
	Long: `Calcula a dívida restante do empréstimo com juros de atraso acumulados
e monta uma proposta de quitação com desconto em novas parcelas. A
simulação não grava nada; use --save para registrar a proposta.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().String("loan", "", "ID do empréstimo (obrigatório)")
	simulateCmd.MarkFlagRequired("loan")
	simulateCmd.Flags().String("discount", "0", "Percentual de desconto sobre a dívida")
	simulateCmd.Flags().Int("installments", 1, "Quantidade de novas parcelas")
	simulateCmd.Flags().String("rate", "0", "Juros mensais das novas parcelas (%)")
	simulateCmd.Flags().Bool("save", false, "Grava a proposta simulada")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	loanID, _ := cmd.Flags().GetString("loan")
	rawDiscount, _ := cmd.Flags().GetString("discount")
	installmentCount, _ := cmd.Flags().GetInt("installments")
	rawRate, _ := cmd.Flags().GetString("rate")
	save, _ := cmd.Flags().GetBool("save")

	discount, err := decimal.NewFromString(rawDiscount)
	if err != nil {
		return fmt.Errorf("invalid --discount %q: %w", rawDiscount, err)
	}
	rate, err := decimal.NewFromString(rawRate)
	if err != nil {
		return fmt.Errorf("invalid --rate %q: %w", rawRate, err)
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		return err
	}
	store := repository.NewPostgres(pg.DB)

	loan, err := store.GetLoan(ctx, loanID)
	if err != nil {
		return err
	}
	installments, err := store.GetInstallments(ctx, loan.ID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	profile := rates.NewResolver(store, log).ForCustomer(ctx, loan.CustomerID)
	remaining := accrual.RemainingDebt(installments, profile, now)

	calculator := renegotiation.NewCalculator(time.Duration(cfg.Renegotiation.ProposalTTLDays) * 24 * time.Hour)
	proposal, err := calculator.Simulate(renegotiation.SimulateRequest{
		CustomerID:          loan.CustomerID,
		LoanID:              loan.ID,
		RemainingAmount:     remaining,
		DiscountPercent:     discount,
		NewInstallmentCount: installmentCount,
		NewMonthlyRate:      rate,
		Installments:        installments,
		Now:                 now,
	})
	if err != nil {
		return err
	}

	if save {
		if err := store.SaveRenegotiationProposal(ctx, proposal); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stdout, "Dívida restante:  %s (%d dias de atraso)\n",
		collection.FormatMoney(proposal.RemainingAmount), proposal.DaysOverdue)
	fmt.Fprintf(os.Stdout, "Desconto:         %s (%s%%)\n",
		collection.FormatMoney(proposal.Proposal.Discount), proposal.Proposal.DiscountPercent.String())
	fmt.Fprintf(os.Stdout, "Novo valor:       %s em %dx de %s\n",
		collection.FormatMoney(proposal.Proposal.NewAmount),
		proposal.Proposal.NewInstallments,
		collection.FormatMoney(proposal.Proposal.NewInstallmentValue))
	fmt.Fprintf(os.Stdout, "Válida até:       %s\n", proposal.ExpiresAt.Format("02/01/2006"))
	if save {
		fmt.Fprintf(os.Stdout, "Proposta gravada: %s\n", proposal.ID)
	}
	return nil
}
