// Package store – demo seed dataset
//
// The fallback dataset shown before the first successful poll. Shortage
// records are static; call timestamps are generated relative to the
// provided clock so the log always looks recent.
package store

import (
	"time"

	"github.com/valio-aimo/go-ops-backend/internal/domain"
)

// SeedShortages returns the demo shortage predictions.
func SeedShortages() []domain.ShortageRecord {
	return []domain.ShortageRecord{
		{
			ID:           "1",
			SKU:          "VAL-MLK-001",
			ProductName:  "Valio Kevytmaito 1L",
			CustomerName: "Ravintola Savoy",
			RiskScore:    0.87,
			Status:       domain.StatusPending,
			OrderID:      "ORD-2025-1145",
			SuggestedReplacements: []domain.ReplacementSuggestion{
				{
					SKU:         "VAL-MLK-002",
					ProductName: "Valio Rasvaton Maito 1L",
					Reason:      "Same volume, fat-free alternative, same delivery schedule",
					Tags:        []string{"fat-free", "1L", "same-day-delivery"},
				},
				{
					SKU:         "VAL-MLK-003",
					ProductName: "Valio Luomu Kevytmaito 1L",
					Reason:      "Organic option, same fat content, premium quality",
					Tags:        []string{"organic", "1L", "premium"},
				},
				{
					SKU:         "VAL-MLK-004",
					ProductName: "Valio Kevytmaito 2L",
					Reason:      "Larger pack size, better value, same product line",
					Tags:        []string{"2L", "value-pack", "same-product-line"},
				},
			},
		},
		{
			ID:           "2",
			SKU:          "VAL-CRM-005",
			ProductName:  "Valio Ruokakerma 5dl",
			CustomerName: "Café Helsinki",
			RiskScore:    0.65,
			Status:       domain.StatusPending,
			OrderID:      "ORD-2025-1146",
			SuggestedReplacements: []domain.ReplacementSuggestion{
				{
					SKU:         "VAL-CRM-006",
					ProductName: "Valio Kuohukerma 5dl",
					Reason:      "Whipping cream alternative, suitable for hot beverages",
					Tags:        []string{"whipping-cream", "5dl", "versatile"},
				},
				{
					SKU:         "VAL-CRM-007",
					ProductName: "Valio Ruokakerma 2dl",
					Reason:      "Smaller pack, same product, immediate availability",
					Tags:        []string{"2dl", "in-stock", "same-product"},
				},
			},
		},
		{
			ID:           "3",
			SKU:          "VAL-CHZ-012",
			ProductName:  "Valio Emmental viipale 150g",
			CustomerName: "Bistro Kluuvi",
			RiskScore:    0.43,
			Status:       domain.StatusPending,
			OrderID:      "ORD-2025-1147",
			SuggestedReplacements: []domain.ReplacementSuggestion{
				{
					SKU:         "VAL-CHZ-013",
					ProductName: "Valio Emmental 200g",
					Reason:      "Larger pack, same cheese, better unit price",
					Tags:        []string{"200g", "value", "same-cheese"},
				},
				{
					SKU:         "VAL-CHZ-014",
					ProductName: "Valio Edamer viipale 150g",
					Reason:      "Similar taste profile, same pack size, melts well",
					Tags:        []string{"150g", "similar-taste", "melt-friendly"},
				},
			},
		},
		{
			ID:           "4",
			SKU:          "VAL-FSH-021",
			ProductName:  "Lohifilee 500g",
			CustomerName: "Hotel Kämp Kitchen",
			RiskScore:    0.91,
			Status:       domain.StatusPending,
			OrderID:      "ORD-2025-1148",
			SuggestedReplacements: []domain.ReplacementSuggestion{
				{
					SKU:         "VAL-FSH-022",
					ProductName: "Premium Lohifilee 500g",
					Reason:      "Higher grade salmon, same weight, excellent quality",
					Tags:        []string{"premium", "500g", "high-quality"},
				},
				{
					SKU:         "VAL-FSH-023",
					ProductName: "Kirjolohi filee 500g",
					Reason:      "Rainbow trout alternative, similar texture and taste",
					Tags:        []string{"trout", "500g", "similar-taste"},
				},
				{
					SKU:         "VAL-FSH-024",
					ProductName: "Lohifilee 750g",
					Reason:      "Larger portion, same product, can be portioned",
					Tags:        []string{"750g", "portionable", "same-product"},
				},
			},
		},
		{
			ID:           "5",
			SKU:          "VAL-BTR-030",
			ProductName:  "Valio Voi 500g",
			CustomerName: "Ravintola Olo",
			RiskScore:    0.28,
			Status:       domain.StatusResolved,
			OrderID:      "ORD-2025-1149",
			SuggestedReplacements: []domain.ReplacementSuggestion{
				{
					SKU:         "VAL-BTR-031",
					ProductName: "Valio Voi 250g",
					Reason:      "Half size, same butter, multiple packs available",
					Tags:        []string{"250g", "multiple-packs", "same-product"},
				},
			},
		},
	}
}

// SeedCalls returns the demo call log with timestamps relative to now,
// most recent first.
func SeedCalls(now time.Time) []domain.CallRecord {
	at := func(minutesAgo int) string {
		return now.Add(-time.Duration(minutesAgo) * time.Minute).UTC().Format(time.RFC3339)
	}
	sp := func(s string) *string { return &s }

	return []domain.CallRecord{
		{
			ID:              "call-8",
			Time:            at(5),
			CustomerName:    "Hotel Kämp Kitchen",
			Direction:       domain.DirectionOutbound,
			Language:        "en",
			Status:          domain.CallInProgress,
			Outcome:         domain.OutcomeReplacementAccepted,
			RelatedOrderID:  sp("ORD-2025-1148"),
			RelatedSKU:      sp("VAL-FSH-021"),
			Summary:         "Discussing salmon fillet replacement",
			DurationSeconds: 0,
			Transcript: []domain.TranscriptTurn{
				{Speaker: domain.SpeakerAgent, Text: "Hello, this is Valio Aimo calling about order 1148..."},
			},
		},
		{
			ID:              "call-1",
			Time:            at(15),
			CustomerName:    "Ravintola Savoy",
			Direction:       domain.DirectionOutbound,
			Language:        "fi",
			Status:          domain.CallCompleted,
			Outcome:         domain.OutcomeReplacementAccepted,
			RelatedOrderID:  sp("ORD-2025-1145"),
			RelatedSKU:      sp("VAL-MLK-001"),
			Summary:         "Kevytmaito replaced with fat-free milk",
			DurationSeconds: 127,
			AudioURL:        "https://example.com/audio/call-1.mp3",
			PhotoURL:        "https://images.unsplash.com/photo-1550583724-b2692b85b150?w=400",
			Transcript: []domain.TranscriptTurn{
				{Speaker: domain.SpeakerAgent, Text: "Hei, tämä on Valio Aimo. Soitan koskien tilaustanne numero 1145."},
				{Speaker: domain.SpeakerCustomer, Text: "Joo hei, kuulen."},
				{Speaker: domain.SpeakerAgent, Text: "Valitettavasti Kevytmaito 1L on loppunut varastostamme. Voimme tarjota tilalle Rasvaton Maito 1L samaan hintaan. Sopisko tämä teille?"},
				{Speaker: domain.SpeakerCustomer, Text: "Joo, se käy hyvin. Kiitos kun soititte."},
				{Speaker: domain.SpeakerAgent, Text: "Kiitos! Vahvistan muutoksen tilaukseen. Hyvää päivänjatkoa!"},
			},
		},
		{
			ID:              "call-2",
			Time:            at(45),
			CustomerName:    "Café Helsinki",
			Direction:       domain.DirectionOutbound,
			Language:        "fi",
			Status:          domain.CallCompleted,
			Outcome:         domain.OutcomeReplacementAccepted,
			RelatedOrderID:  sp("ORD-2025-1146"),
			RelatedSKU:      sp("VAL-CRM-005"),
			Summary:         "Cooking cream replaced with whipping cream",
			DurationSeconds: 98,
			Transcript: []domain.TranscriptTurn{
				{Speaker: domain.SpeakerAgent, Text: "Hyvää huomenta, Valio Aimo täällä. Soitan tilauksenne 1146 asiassa."},
				{Speaker: domain.SpeakerCustomer, Text: "Selvä, mikä asia?"},
				{Speaker: domain.SpeakerAgent, Text: "Ruokakerma 5dl on tilapäisesti loppu. Voisimmeko toimittaa Kuohukermaa tilalle?"},
				{Speaker: domain.SpeakerCustomer, Text: "Toimii meille, käytämme kahveihin."},
				{Speaker: domain.SpeakerAgent, Text: "Loistavaa! Päivitän tilauksen. Kiitos!"},
			},
		},
		{
			ID:              "call-3",
			Time:            at(90),
			CustomerName:    "Hotel Kämp Kitchen",
			Direction:       domain.DirectionInbound,
			Language:        "en",
			Status:          domain.CallCompleted,
			Outcome:         domain.OutcomeCreditsOnly,
			RelatedOrderID:  sp("ORD-2025-1143"),
			Summary:         "Customer requested credit for missing yogurt delivery",
			DurationSeconds: 156,
			PhotoURL:        "https://images.unsplash.com/photo-1628088062854-d1870b4553da?w=400",
			Transcript: []domain.TranscriptTurn{
				{Speaker: domain.SpeakerCustomer, Text: "Hi, this is Hotel Kämp. We're missing yogurt from today's delivery."},
				{Speaker: domain.SpeakerAgent, Text: "I'm sorry to hear that. Let me check your order. Can I have your order number?"},
				{Speaker: domain.SpeakerCustomer, Text: "It's order 1143."},
				{Speaker: domain.SpeakerAgent, Text: "Thank you. I can see the yogurt wasn't delivered. Would you like a replacement delivery today or a credit?"},
				{Speaker: domain.SpeakerCustomer, Text: "We'll take the credit. We found another supplier for today."},
				{Speaker: domain.SpeakerAgent, Text: "Understood. I've processed a credit to your account. You'll see it reflected within 24 hours."},
				{Speaker: domain.SpeakerCustomer, Text: "Perfect, thank you."},
			},
		},
		{
			ID:              "call-4",
			Time:            at(120),
			CustomerName:    "Bistro Kluuvi",
			Direction:       domain.DirectionOutbound,
			Language:        "fi",
			Status:          domain.CallCompleted,
			Outcome:         domain.OutcomeReplacementAccepted,
			RelatedOrderID:  sp("ORD-2025-1147"),
			RelatedSKU:      sp("VAL-CHZ-012"),
			Summary:         "Emmental cheese replaced with Edamer",
			DurationSeconds: 85,
			Transcript: []domain.TranscriptTurn{
				{Speaker: domain.SpeakerAgent, Text: "Päivää, Valio Aimo. Emmental viipale 150g on loppu. Edamer viipale 150g käy tilalle?"},
				{Speaker: domain.SpeakerCustomer, Text: "Joo, käy hyvin."},
				{Speaker: domain.SpeakerAgent, Text: "Kiitos, vahvistettu!"},
			},
		},
		{
			ID:              "call-5",
			Time:            at(180),
			CustomerName:    "Ravintola Nokka",
			Direction:       domain.DirectionOutbound,
			Language:        "fi",
			Status:          domain.CallCompleted,
			Outcome:         domain.OutcomeReplacementDeclined,
			RelatedOrderID:  sp("ORD-2025-1142"),
			RelatedSKU:      sp("VAL-YGT-040"),
			Summary:         "Customer declined yogurt replacement",
			DurationSeconds: 112,
			Transcript: []domain.TranscriptTurn{
				{Speaker: domain.SpeakerAgent, Text: "Hei, Valio Aimo täällä. Luomujogurtti on loppu. Tarjoamme tavallista jogurttia tilalle?"},
				{Speaker: domain.SpeakerCustomer, Text: "Ei käy, meillä on luomu-menu. Voitteko toimittaa huomenna?"},
				{Speaker: domain.SpeakerAgent, Text: "Kyllä, saamme lisää huomenna. Siirränkö tilauksen huomiseen?"},
				{Speaker: domain.SpeakerCustomer, Text: "Kyllä kiitos."},
				{Speaker: domain.SpeakerAgent, Text: "Selvä, näin teen. Hyvää päivänjatkoa!"},
			},
		},
		{
			ID:              "call-6",
			Time:            at(240),
			CustomerName:    "Café Regatta",
			Direction:       domain.DirectionOutbound,
			Language:        "sv",
			Status:          domain.CallCompleted,
			Outcome:         domain.OutcomeNoAnswer,
			RelatedOrderID:  sp("ORD-2025-1141"),
			RelatedSKU:      sp("VAL-MLK-008"),
			Summary:         "No answer, left voicemail",
			DurationSeconds: 32,
			Transcript: []domain.TranscriptTurn{
				{Speaker: domain.SpeakerAgent, Text: "Hej, detta är Valio Aimo. Vi försöker nå er angående order 1141. Vänligen ring tillbaka."},
			},
		},
		{
			ID:              "call-7",
			Time:            at(300),
			CustomerName:    "Ravintola Olo",
			Direction:       domain.DirectionInbound,
			Language:        "fi",
			Status:          domain.CallCompleted,
			Outcome:         domain.OutcomeReplacementAccepted,
			RelatedOrderID:  sp("ORD-2025-1149"),
			RelatedSKU:      sp("VAL-BTR-030"),
			Summary:         "Customer accepted butter pack size change",
			DurationSeconds: 67,
			Transcript: []domain.TranscriptTurn{
				{Speaker: domain.SpeakerCustomer, Text: "Hei, sain viestin että voi 500g on loppu?"},
				{Speaker: domain.SpeakerAgent, Text: "Kyllä, mutta voimme lähettää kaksi 250g pakkausta tilalle. Sopii?"},
				{Speaker: domain.SpeakerCustomer, Text: "Joo, toimii."},
				{Speaker: domain.SpeakerAgent, Text: "Kiitos, vahvistettu!"},
			},
		},
	}
}
