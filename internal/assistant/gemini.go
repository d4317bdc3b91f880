package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"

	"github.com/budgetivoire/budgetivoire/internal/ledger"
)

const (
	adviceOffline = "Connectez-vous à internet pour recevoir des conseils de Tonton Gemini !"
	adviceEmpty   = "Économise un peu chaque jour pour assurer tes lendemains !"
	adviceFailed  = "Le réseau est un peu lent, mais garde la pêche ! Économise toujours."

	adviceWindow = 5
)

// generator is the part of *genai.Models we call.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini parses free text and gives advice through the Gemini API. Without an
// API key every parse is not understood and advice falls back to fixed text.
type Gemini struct {
	models generator
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return &Gemini{model: model}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &Gemini{models: client.Models, model: model}, nil
}

func parseInstruction() string {
	labels := make([]string, 0, len(ledger.Categories()))
	for _, c := range ledger.Categories() {
		labels = append(labels, "'"+c.String()+"'")
	}

	methods := make([]string, 0, len(ledger.PaymentMethods()))
	for _, pm := range ledger.PaymentMethods() {
		methods = append(methods, "'"+string(pm)+"'")
	}

	return "You are an assistant for an expense tracker in Ivory Coast (West Africa).\n" +
		"Extract transaction details from the user's text.\n" +
		"Currency is XOF (CFA), amounts are whole numbers.\n" +
		"Default payment method if not specified: '" + string(ledger.PaymentCash) + "'.\n" +
		"Payment methods: " + strings.Join(methods, ", ") + ".\n" +
		"Categories: " + strings.Join(labels, ", ") + ".\n" +
		"Type is usually EXPENSE, unless words like 'reçu', 'gagné', 'salaire' are used (INCOME)."
}

var suggestionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"amount":        {Type: genai.TypeNumber},
		"category":      {Type: genai.TypeString},
		"paymentMethod": {Type: genai.TypeString},
		"note":          {Type: genai.TypeString},
		"type":          {Type: genai.TypeString, Enum: []string{string(ledger.FlowExpense), string(ledger.FlowIncome)}},
	},
	Required: []string{"amount", "type"},
}

type rawSuggestion struct {
	Amount        float64 `json:"amount"`
	Category      string  `json:"category"`
	PaymentMethod string  `json:"paymentMethod"`
	Note          string  `json:"note"`
	Type          string  `json:"type"`
}

func (g *Gemini) Parse(ctx context.Context, text string) (*Suggestion, error) {
	text = strings.TrimSpace(text)
	if g.models == nil || text == "" {
		return nil, ErrNotUnderstood
	}

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(text), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(parseInstruction(), genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    suggestionSchema,
	})
	if err != nil {
		slog.Warn("failed to parse free text", "error", err)
		return nil, ErrNotUnderstood
	}

	var raw rawSuggestion
	if err := json.Unmarshal([]byte(cleanJSON(resp.Text())), &raw); err != nil {
		slog.Warn("unreadable parser response", "error", err)
		return nil, ErrNotUnderstood
	}

	return normalize(raw)
}

// maxParsedAmount bounds parser amounts before the int64 conversion, which
// would otherwise wrap.
var maxParsedAmount = decimal.NewFromInt(1 << 53)

func normalize(raw rawSuggestion) (*Suggestion, error) {
	amount := decimal.NewFromFloat(raw.Amount).Round(0)
	if !amount.IsPositive() || amount.GreaterThan(maxParsedAmount) {
		return nil, ErrNotUnderstood
	}

	s := &Suggestion{
		Amount:        amount.IntPart(),
		Flow:          ledger.FlowExpense,
		PaymentMethod: ledger.MatchPaymentMethod(raw.PaymentMethod),
		Note:          strings.TrimSpace(raw.Note),
	}

	if flow, err := ledger.ParseFlow(raw.Type); err == nil {
		s.Flow = flow
	}

	if strings.TrimSpace(raw.Category) != "" {
		s.Category = ledger.MatchCategory(raw.Category)
	}

	return s, nil
}

// cleanJSON drops Markdown fences and anything outside the outer object.
func cleanJSON(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}

	return strings.TrimSpace(s)
}

// Advice returns a short tip about the newest entries of recent.
func (g *Gemini) Advice(ctx context.Context, recent []ledger.Transaction) string {
	if g.models == nil {
		return adviceOffline
	}

	if len(recent) == 0 {
		return adviceEmpty
	}

	parts := make([]string, 0, adviceWindow)
	for _, t := range recent[:min(adviceWindow, len(recent))] {
		kind := "Dépense"
		if t.Flow == ledger.FlowIncome {
			kind = "Revenu"
		}

		parts = append(parts, fmt.Sprintf("%s de %dF pour %s", kind, t.Amount, t.Category))
	}

	prompt := "Voici mes dépenses récentes : " + strings.Join(parts, ", ") +
		". Donne-moi un conseil court (max 2 phrases), amical et motivant style \"Grand Frère Ivoirien\" " +
		"pour mieux gérer mon argent. Utilise l'humour local si possible (nouchi léger)."

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		slog.Warn("failed to get advice", "error", err)
		return adviceFailed
	}

	if text := strings.TrimSpace(resp.Text()); text != "" {
		return text
	}

	return adviceEmpty
}
