package smsparser

import (
	"fmt"
	"math/rand"

	"github.com/TKcodes-bit/Momo-app-code-bit/internal/models"

	"github.com/beevik/etree"
)

// WriteSampleXML writes a synthetic SMS export with n transactions for local
// testing. Output is deterministic for a given seed.
func WriteSampleXML(path string, n int, seed int64) error {
	rng := rand.New(rand.NewSource(seed))

	types := []string{"DEPOSIT", "WITHDRAWAL", "TRANSFER", "PAYMENT", "RECEIVE"}
	senders := []string{"+250788123456", "+250789123456", "+250787123456", "+250786123456"}
	receivers := []string{"+250788654321", "+250789654321", "+250787654321", "+250786654321"}
	statuses := []string{"SUCCESS", "PENDING", "FAILED"}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("transactions")

	for i := 0; i < n; i++ {
		txType := types[rng.Intn(len(types))]

		sms := root.CreateElement("sms")
		sms.CreateElement("Id").SetText(fmt.Sprintf("%s%06d", models.IDPrefix, i+1))
		sms.CreateElement("Type").SetText(txType)
		sms.CreateElement("Amount").SetText(fmt.Sprintf("%d", 1000+rng.Intn(499001)))
		sms.CreateElement("Sender").SetText(senders[rng.Intn(len(senders))])
		sms.CreateElement("Receiver").SetText(receivers[rng.Intn(len(receivers))])
		sms.CreateElement("Timestamp").SetText(fmt.Sprintf(
			"2024-%02d-%02dT%02d:%02d:%02d",
			1+rng.Intn(12), 1+rng.Intn(28),
			rng.Intn(24), rng.Intn(60), rng.Intn(60)))
		sms.CreateElement("Status").SetText(statuses[rng.Intn(len(statuses))])
		sms.CreateElement("Description").SetText("Mobile money " + txType)
	}

	doc.Indent(2)
	return doc.WriteToFile(path)
}
