package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/quantpulse/Trading-Signals-Backend/internal/model"
	"github.com/quantpulse/Trading-Signals-Backend/internal/validation"
)

const insightSystemPrompt = "You are an expert financial analyst providing concise, " +
	"actionable trading insights. Focus on technical analysis, market sentiment, and risk assessment."

// GetInsights produces the read-only insight feed for one symbol.
//
// With no advisory capability configured it returns three deterministic
// templated insights. With the capability configured it returns a single
// AI-generated insight; any advisory failure degrades to a placeholder
// "temporarily unavailable" record rather than an error, so callers can
// treat the outcome as normal and poll again later. This path is
// intentionally not rate limited.
func (s *SignalService) GetInsights(ctx context.Context, symbol, timeframe string) ([]model.Insight, error) {
	validatedSymbol, err := validation.ValidateSymbol(symbol)
	if err != nil {
		return nil, err
	}
	validatedTimeframe := validation.NormalizeTimeframe(timeframe)

	if s.advisorClient == nil {
		log.Printf("AI insights disabled - no advisory API key configured")
		return templatedInsights(validatedSymbol, validatedTimeframe), nil
	}

	instrument, err := s.instrumentRepo.GetInstrumentBySymbol(validatedSymbol)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`Analyze the following stock data for %s and provide trading insights:

Current Price: $%.2f
Change: %.2f%%
Volume: %d
Market Cap: $%.1fB
Timeframe: %s

Please provide 3 specific insights:
1. Technical Analysis insight
2. Market Sentiment insight
3. Risk Assessment insight

Format your response as actionable insights for a trader. Be concise and specific.`,
		instrument.Symbol,
		instrument.Price,
		instrument.ChangePercent,
		instrument.Volume,
		instrument.MarketCap/1e9,
		validatedTimeframe,
	)

	reply, err := s.advisorClient.Complete(ctx, insightSystemPrompt, prompt)
	if err != nil {
		log.Printf("Advisory insight call failed for %s: %v", validatedSymbol, err)
		return FallbackInsights(), nil
	}

	return []model.Insight{
		{
			Type:       "AI Analysis",
			Message:    reply,
			Confidence: 0.85,
			Timestamp:  time.Now().UTC(),
		},
	}, nil
}

// templatedInsights is the deterministic insight set served when the advisory
// capability is unconfigured.
func templatedInsights(symbol, timeframe string) []model.Insight {
	now := time.Now().UTC()
	return []model.Insight{
		{
			Type: "Technical Analysis",
			Message: fmt.Sprintf(
				"%s is showing strong momentum with bullish patterns forming on the %s chart.",
				symbol, timeframe),
			Confidence: 0.78,
			Timestamp:  now,
		},
		{
			Type:       "Market Sentiment",
			Message:    "Overall market sentiment remains positive with increasing institutional interest.",
			Confidence: 0.65,
			Timestamp:  now,
		},
		{
			Type:       "Risk Assessment",
			Message:    "Moderate risk levels detected. Consider position sizing carefully.",
			Confidence: 0.72,
			Timestamp:  now,
		},
	}
}

// FallbackInsights is the placeholder payload used when insight generation
// fails internally. Exposed so the HTTP layer can serve the same degraded
// payload for failures that happen outside the service call.
func FallbackInsights() []model.Insight {
	return []model.Insight{
		{
			Type:       "System Notice",
			Message:    "AI analysis temporarily unavailable. Please try again later.",
			Confidence: 0.5,
			Timestamp:  time.Now().UTC(),
		},
	}
}
