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
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/messaging"
	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/repository"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Executa a régua de cobrança do dia",
	Long: `Carrega as parcelas em aberto, casa cada uma com as regras ativas da
régua e dispara as mensagens pelo canal de cada regra, uma de cada vez.
Com --dry-run as ações são apenas listadas, nada é enviado.`,
	RunE: runCollect,
}

func init() {
	collectCmd.Flags().String("date", "", "Data de referência (YYYY-MM-DD, padrão: hoje)")
	collectCmd.Flags().Bool("dry-run", false, "Lista as ações sem enviar mensagens")
}

func runCollect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	today := time.Now().UTC()
	if raw, _ := cmd.Flags().GetString("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fmt.Errorf("invalid --date %q, expected YYYY-MM-DD: %w", raw, err)
		}
		today = parsed
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		return err
	}
	store := repository.NewPostgres(pg.DB)

	rdb := database.NewRedis(cfg.Database.Redis)
	defer rdb.Close()

	gateways, err := buildGateways(ctx)
	if err != nil {
		return err
	}

	ledger := collection.NewRedisLedger(rdb.Client, time.Duration(cfg.Collection.LedgerTTLHours)*time.Hour)
	dispatcher := collection.NewDispatcher(gateways, ledger,
		time.Duration(cfg.Collection.DispatchDelayMs)*time.Millisecond, log)
	runner := collection.NewRunner(store, collection.NewMatcher(log), dispatcher, buildNotifier(ctx), log)

	summary, actions, err := runner.Run(ctx, today, dryRun)
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Fprintf(os.Stdout, "Dry-run de %s: %d ações\n", today.Format("02/01/2006"), summary.Emitted)
		for _, a := range actions {
			fmt.Fprintf(os.Stdout, "  [%s] %s (offset %+d) -> %s: %s\n",
				a.Channel, a.InstallmentID, a.DaysOffset, a.Recipient, a.RenderedMessage)
		}
		return nil
	}

	fmt.Fprintf(os.Stdout, "Régua de %s: %s\n", today.Format("02/01/2006"), summary.String())
	return nil
}

// buildGateways wires one messaging gateway per enabled channel. WhatsApp and
// SMS both ride SNS; e-mail rides SES.
func buildGateways(ctx context.Context) (map[domain.Channel]messaging.Gateway, error) {
	gateways := make(map[domain.Channel]messaging.Gateway)
	aws := cfg.Integrations.AWS

	if aws.SNS.Enabled {
		sns, err := messaging.NewSNSGateway(ctx, aws.Region, aws.SNS.DefaultSMSSenderID)
		if err != nil {
			return nil, err
		}
		gateways[domain.ChannelSMS] = sns
		gateways[domain.ChannelWhatsApp] = sns
	}
	if aws.SES.Enabled {
		ses, err := messaging.NewSESGateway(ctx, aws.Region, aws.SES.FromEmail, aws.SES.Subject)
		if err != nil {
			return nil, err
		}
		gateways[domain.ChannelEmail] = ses
	}
	return gateways, nil
}

// buildNotifier picks the batch-summary notifier: e-mail when an alert address
// and SES are configured, the structured log otherwise.
func buildNotifier(ctx context.Context) messaging.Notifier {
	aws := cfg.Integrations.AWS
	if cfg.Integrations.AlertEmail != "" && aws.SES.Enabled {
		ses, err := messaging.NewSESGateway(ctx, aws.Region, aws.SES.FromEmail, aws.SES.Subject)
		if err == nil {
			return messaging.NewEmailNotifier(ses, cfg.Integrations.AlertEmail, log)
		}
		log.WithError(err).Warn("falling back to log notifier", nil)
	}
	return messaging.NewLogNotifier(log)
}
