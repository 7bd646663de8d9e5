package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/common/database"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/domain"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/engine/collection"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/engine/score"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/repository"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Calcula o score comportamental de um cliente",
	Long: `Recalcula o score comportamental do cliente a partir do histórico de
pagamentos de todos os seus empréstimos, grava o resultado e imprime o
score, o nível de risco e o limite sugerido.`,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().String("customer", "", "ID do cliente (obrigatório)")
	scoreCmd.MarkFlagRequired("customer")
	scoreCmd.Flags().Bool("no-save", false, "Apenas calcula, não grava o resultado")
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	customerID, _ := cmd.Flags().GetString("customer")
	noSave, _ := cmd.Flags().GetBool("no-save")

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		return err
	}
	store := repository.NewPostgres(pg.DB)

	customer, err := store.GetCustomer(ctx, customerID)
	if err != nil {
		return err
	}
	allLoans, err := store.GetLoans(ctx)
	if err != nil {
		return err
	}

	var loans []domain.Loan
	installmentsByLoan := make(map[string][]domain.Installment)
	for _, loan := range allLoans {
		if loan.CustomerID != customerID {
			continue
		}
		installments, err := store.GetInstallments(ctx, loan.ID)
		if err != nil {
			return err
		}
		loans = append(loans, loan)
		installmentsByLoan[loan.ID] = installments
	}

	engine := score.NewEngine(score.WeightsFromConfig(cfg.Score))
	result := engine.Calculate(customer, loans, installmentsByLoan, time.Now().UTC())

	if !noSave {
		if err := store.SaveScore(ctx, result); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stdout, "Cliente:          %s %s\n", customer.FirstName, customer.LastName)
	fmt.Fprintf(os.Stdout, "Score:            %d (%s)\n", result.Score, result.Level)
	fmt.Fprintf(os.Stdout, "Pagamentos:       %d em dia, %d em atraso\n",
		result.Factors.OnTimePayments, result.Factors.LatePayments)
	fmt.Fprintf(os.Stdout, "Relacionamento:   %d meses\n", result.Factors.RelationshipMonths)
	fmt.Fprintf(os.Stdout, "Limite sugerido:  %s\n", collection.FormatMoney(result.SuggestedLimit))
	return nil
}
