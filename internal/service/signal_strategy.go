package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/quantpulse/Trading-Signals-Backend/internal/advisor"
	"github.com/quantpulse/Trading-Signals-Backend/internal/model"
)

// signalStrategy produces a candidate signal from current instrument data.
// Implementations must always return a usable candidate; only context
// cancellation may surface as an error.
type signalStrategy interface {
	ProduceCandidate(ctx context.Context, instrument model.Instrument) (model.CandidateSignal, error)
}

// ruleStrategy derives signals from the observed change percent alone.
// Always available; also serves as the implicit fallback when the advisory
// capability is unconfigured.
type ruleStrategy struct{}

func (ruleStrategy) ProduceCandidate(_ context.Context, instrument model.Instrument) (model.CandidateSignal, error) {
	priceChange := instrument.ChangePercent
	currentPrice := instrument.Price

	switch {
	case priceChange > 2:
		return model.CandidateSignal{
			SignalType:  model.SignalBuy,
			Confidence:  0.75,
			PriceTarget: currentPrice * 1.1,
			StopLoss:    currentPrice * 0.95,
			Reasoning: fmt.Sprintf(
				"Strong upward momentum (+%.2f%%) suggests continued bullish trend. High volume supports the move.",
				priceChange),
		}, nil
	case priceChange < -3:
		return model.CandidateSignal{
			SignalType:  model.SignalSell,
			Confidence:  0.70,
			PriceTarget: currentPrice * 0.9,
			StopLoss:    currentPrice * 1.05,
			Reasoning: fmt.Sprintf(
				"Significant downward pressure (%.2f%%) indicates potential further decline. Consider risk management.",
				priceChange),
		}, nil
	default:
		return model.CandidateSignal{
			SignalType:  model.SignalHold,
			Confidence:  0.60,
			PriceTarget: currentPrice * 1.05,
			StopLoss:    currentPrice * 0.95,
			Reasoning:   "Price action is consolidating. Wait for clearer directional signals before entering new positions.",
		}, nil
	}
}

// advisorStrategy asks the external advisory service for a signal and parses
// its pipe-delimited reply. Any failure of the call or of parsing is absorbed
// into a fixed conservative HOLD candidate; callers always receive a usable
// signal. Context cancellation is the one failure that propagates.
type advisorStrategy struct {
	client advisor.Client
}

const signalSystemPrompt = "You are a professional trading algorithm. " +
	"Provide precise, actionable trading signals based on market data analysis."

func (s advisorStrategy) ProduceCandidate(ctx context.Context, instrument model.Instrument) (model.CandidateSignal, error) {
	prompt := fmt.Sprintf(`Analyze %s and generate a trading signal:

Current Price: $%.2f
Change: %.2f%%
Volume: %d
Market Cap: $%.1fB

Based on this data, provide:
1. Signal type (BUY/SELL/HOLD)
2. Confidence level (0-1)
3. Price target
4. Stop loss level
5. Brief reasoning

Format as: SIGNAL_TYPE|CONFIDENCE|PRICE_TARGET|STOP_LOSS|REASONING`,
		instrument.Symbol,
		instrument.Price,
		instrument.ChangePercent,
		instrument.Volume,
		instrument.MarketCap/1e9,
	)

	reply, err := s.client.Complete(ctx, signalSystemPrompt, prompt)
	if err != nil {
		if ctx.Err() != nil {
			return model.CandidateSignal{}, ctx.Err()
		}
		log.Printf("Advisory call failed for %s, falling back: %v", instrument.Symbol, err)
		return conservativeHold(instrument.Price), nil
	}

	candidate, err := parseAdvisoryReply(reply)
	if err != nil {
		log.Printf("Advisory reply unusable for %s, falling back: %v", instrument.Symbol, err)
		return conservativeHold(instrument.Price), nil
	}

	return candidate, nil
}

// conservativeHold is the fixed fallback candidate used whenever the advisory
// capability fails or returns unusable content.
func conservativeHold(price float64) model.CandidateSignal {
	return model.CandidateSignal{
		SignalType:  model.SignalHold,
		Confidence:  0.5,
		PriceTarget: price * 1.05,
		StopLoss:    price * 0.95,
		Reasoning:   "AI analysis unavailable or unusable. Using conservative hold signal.",
	}
}

// parseAdvisoryReply parses SIGNAL_TYPE|CONFIDENCE|PRICE_TARGET|STOP_LOSS|REASONING.
func parseAdvisoryReply(reply string) (model.CandidateSignal, error) {
	parts := strings.Split(strings.TrimSpace(reply), "|")
	if len(parts) != 5 {
		return model.CandidateSignal{}, fmt.Errorf("expected 5 pipe-delimited fields, got %d", len(parts))
	}

	signalType := strings.ToUpper(strings.TrimSpace(parts[0]))
	switch signalType {
	case model.SignalBuy, model.SignalSell, model.SignalHold:
	default:
		return model.CandidateSignal{}, fmt.Errorf("unknown signal type %q", parts[0])
	}

	confidence, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return model.CandidateSignal{}, fmt.Errorf("non-numeric confidence %q", parts[1])
	}

	priceTarget, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return model.CandidateSignal{}, fmt.Errorf("non-numeric price target %q", parts[2])
	}

	stopLoss, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
	if err != nil {
		return model.CandidateSignal{}, fmt.Errorf("non-numeric stop loss %q", parts[3])
	}

	reasoning := strings.TrimSpace(parts[4])
	if reasoning == "" {
		reasoning = "AI-generated trading signal based on market analysis."
	}

	return model.CandidateSignal{
		SignalType:  signalType,
		Confidence:  confidence,
		PriceTarget: priceTarget,
		StopLoss:    stopLoss,
		Reasoning:   reasoning,
	}, nil
}
