// Package catalog supplies the static FAQ table the matcher is built from.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yanqian/support-bot/internal/domain/matcher"
)

type fileCatalog struct {
	Entries []matcher.QA `yaml:"entries"`
}

// LoadFile parses a YAML catalog file into ordered question/answer pairs.
// File order is preserved because it decides tie-breaks in the matcher.
func LoadFile(path string) ([]matcher.QA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var parsed fileCatalog
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	entries := make([]matcher.QA, 0, len(parsed.Entries))
	for i, qa := range parsed.Entries {
		question := strings.TrimSpace(qa.Question)
		answer := strings.TrimSpace(qa.Answer)
		if question == "" || answer == "" {
			return nil, fmt.Errorf("catalog entry %d is missing a question or answer", i)
		}
		entries = append(entries, matcher.QA{Question: question, Answer: answer})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog file %s contains no entries", path)
	}
	return entries, nil
}

// Defaults returns the built-in support catalog used when no external source
// is configured.
func Defaults() []matcher.QA {
	return []matcher.QA{
		{
			Question: "What are your business hours?",
			Answer:   "Our business hours are Monday to Friday, 9 AM to 6 PM EST. We're closed on weekends and major holidays.",
		},
		{
			Question: "How do I reset my password?",
			Answer:   "To reset your password, go to the login page and click 'Forgot Password'. Enter your email address and we'll send you a reset link.",
		},
		{
			Question: "How can I contact customer support?",
			Answer:   "You can contact us through this chat, email us at support@company.com, or call us at 1-800-SUPPORT during business hours.",
		},
		{
			Question: "What payment methods do you accept?",
			Answer:   "We accept all major credit cards (Visa, MasterCard, American Express), PayPal, and bank transfers.",
		},
		{
			Question: "How do I cancel my subscription?",
			Answer:   "You can cancel your subscription by going to Account Settings > Billing > Cancel Subscription. You'll retain access until the end of your current billing period.",
		},
		{
			Question: "Where can I find my invoice?",
			Answer:   "Your invoices are available in your account dashboard under Billing > Invoice History. You can download them as PDF files.",
		},
		{
			Question: "Do you offer refunds?",
			Answer:   "We offer a 30-day money-back guarantee for all new subscriptions. Contact support within 30 days for a full refund.",
		},
		{
			Question: "How do I update my billing information?",
			Answer:   "Go to Account Settings > Billing > Payment Methods to update your credit card or billing address.",
		},
		{
			Question: "Is my data secure?",
			Answer:   "Yes, we use industry-standard encryption and security measures. Your data is encrypted both in transit and at rest.",
		},
		{
			Question: "Do you have a mobile app?",
			Answer:   "Yes, you can download our mobile app from the App Store (iOS) or Google Play Store (Android).",
		},
	}
}
