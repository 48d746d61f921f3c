// Package categorize contains the one-off categorization command.
package categorize

import (
	"strings"

	"github.com/TKcodes-bit/Momo-app-code-bit/cmd/root"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/categorizer"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/models"

	"github.com/spf13/cobra"
)

var (
	body            string
	transactionType string
	amount          float64
)

// Cmd is the categorize command.
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize a single transaction from the command line",
	Long: `Categorize runs the categorization heuristics over a transaction described
by flags and prints the decision. Useful for inspecting how a given SMS body
would be classified.`,
	RunE: run,
}

func init() {
	Cmd.Flags().StringVarP(&body, "body", "b", "", "SMS body text")
	Cmd.Flags().StringVarP(&transactionType, "type", "t", "", "Transaction type (e.g. SEND, RECEIVE, DEPOSIT)")
	Cmd.Flags().Float64VarP(&amount, "amount", "a", 0, "Transaction amount")
}

func run(cmd *cobra.Command, args []string) error {
	logger := root.Logger()

	cat, err := categorizer.New(root.Cfg, logger)
	if err != nil {
		return err
	}

	record := cat.Categorize(models.TransactionRecord{
		TransactionType: strings.ToUpper(strings.TrimSpace(transactionType)),
		Amount:          amount,
		Body:            body,
	})

	cmd.Printf("Category:   %s (id %d)\n", record.CategoryName, record.CategoryID)
	cmd.Printf("Confidence: %.2f\n", record.CategorizationConfidence)
	cmd.Printf("Method:     %s\n", record.CategorizationMethod)
	if record.MerchantName != "" {
		cmd.Printf("Merchant:   %s\n", record.MerchantName)
	}
	if record.ReferenceNumber != "" {
		cmd.Printf("Reference:  %s\n", record.ReferenceNumber)
	}
	if record.Location != "" {
		cmd.Printf("Location:   %s\n", record.Location)
	}
	return nil
}
