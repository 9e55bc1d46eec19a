package service

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"clinical-data-api/internal/domain/entity"
)

// MedicalExtractor pulls structured clinical fields out of a transcript.
// No schema guarantee on keys present; missing information yields empty or
// nil values rather than errors.
type MedicalExtractor interface {
	Extract(ctx context.Context, text string) (entity.JSON, error)
}

// keywordExtractor is a single-pass keyword/regex extractor over the
// transcript. Term lists mirror the clinical vocabulary the upstream NLP
// service was configured with.
type keywordExtractor struct {
	agePattern *regexp.Regexp
	bpPattern  *regexp.Regexp
	hrPattern  *regexp.Regexp
	medication []*regexp.Regexp

	riskFactors     []string
	symptomKeywords []string
	familyMarkers   []string
	surgicalMarkers []string
	genderTerms     map[string][]string
}

func NewKeywordExtractor() MedicalExtractor {
	medPatterns := []string{
		`\b\d+\s*mg\s+\w+\b`,
		`\b\w+\s+\d+\s*mg\b`,
		`\btablet[s]?\s+of\s+\w+\b`,
	}
	medication := make([]*regexp.Regexp, 0, len(medPatterns))
	for _, p := range medPatterns {
		medication = append(medication, regexp.MustCompile(`(?i)`+p))
	}

	return &keywordExtractor{
		agePattern: regexp.MustCompile(`(?i)\b(\d{1,3})[\s-]*(?:year|yr|years|y)s?[\s-]*old\b`),
		bpPattern:  regexp.MustCompile(`\b(\d{2,3})/(\d{2,3})\b`),
		hrPattern:  regexp.MustCompile(`(?i)\b(\d{2,3})\s*(?:bpm|beats per minute)\b`),
		medication: medication,
		riskFactors: []string{
			"diabetes", "hypertension", "smoking", "obesity",
			"hyperlipidemia", "cardiovascular disease",
		},
		symptomKeywords: []string{
			"pain", "ache", "fever", "cough", "headache",
			"nausea", "vomiting", "diarrhea", "fatigue", "weakness",
			"shortness of breath", "chest pain",
		},
		familyMarkers: []string{
			"family history", "mother had", "father had",
			"mother has", "father has", "runs in the family",
		},
		surgicalMarkers: []string{
			"surgery", "operation", "appendectomy", "bypass",
			"resection", "transplant", "c-section", "hysterectomy",
		},
		genderTerms: map[string][]string{
			"male":   {"male", "man", "gentleman", "boy"},
			"female": {"female", "woman", "lady", "girl"},
		},
	}
}

func (e *keywordExtractor) Extract(ctx context.Context, text string) (entity.JSON, error) {
	lower := strings.ToLower(text)

	demographics := map[string]interface{}{
		"age":    nil,
		"gender": nil,
	}
	if m := e.agePattern.FindStringSubmatch(text); m != nil {
		if age, err := strconv.Atoi(m[1]); err == nil {
			demographics["age"] = age
		}
	}
	for _, gender := range []string{"female", "male"} {
		if containsAny(lower, e.genderTerms[gender]) {
			demographics["gender"] = gender
			break
		}
	}

	vitals := map[string]interface{}{
		"blood_pressure": nil,
		"heart_rate":     nil,
	}
	if m := e.bpPattern.FindStringSubmatch(text); m != nil {
		vitals["blood_pressure"] = m[1] + "/" + m[2]
	}
	if m := e.hrPattern.FindStringSubmatch(text); m != nil {
		if hr, err := strconv.Atoi(m[1]); err == nil {
			vitals["heart_rate"] = hr
		}
	}

	medications := []string{}
	for _, pattern := range e.medication {
		for _, match := range pattern.FindAllString(text, -1) {
			if !containsString(medications, match) {
				medications = append(medications, match)
			}
		}
	}

	riskFactors := []string{}
	for _, factor := range e.riskFactors {
		if strings.Contains(lower, factor) {
			riskFactors = append(riskFactors, factor)
		}
	}

	symptoms := []string{}
	for _, sentence := range splitSentences(text) {
		sentenceLower := strings.ToLower(sentence)
		for _, keyword := range e.symptomKeywords {
			if strings.Contains(sentenceLower, keyword) {
				trimmed := strings.TrimSpace(sentence)
				if !containsString(symptoms, trimmed) {
					symptoms = append(symptoms, trimmed)
				}
				break
			}
		}
	}

	familyHistory := markedSentences(text, e.familyMarkers)
	surgicalHistory := markedSentences(text, e.surgicalMarkers)

	return entity.JSON{
		"demographics":     demographics,
		"vital_signs":      vitals,
		"medications":      medications,
		"risk_factors":     riskFactors,
		"symptoms":         symptoms,
		"family_history":   familyHistory,
		"surgical_history": surgicalHistory,
	}, nil
}

func markedSentences(text string, markers []string) []string {
	result := []string{}
	for _, sentence := range splitSentences(text) {
		sentenceLower := strings.ToLower(sentence)
		for _, marker := range markers {
			if strings.Contains(sentenceLower, marker) {
				trimmed := strings.TrimSpace(sentence)
				if !containsString(result, trimmed) {
					result = append(result, trimmed)
				}
				break
			}
		}
	}
	return result
}

func splitSentences(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
