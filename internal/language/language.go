// Package language holds the closed set of UI languages and the localized
// strings the core packages need. The selection is always passed explicitly to
// operations that depend on it; there is no ambient language state.
package language

import "time"

// Language is a UI language code.
type Language string

const (
	English Language = "en"
	Telugu  Language = "te"
	Hindi   Language = "hi"
	Spanish Language = "es"
	Tamil   Language = "ta"
)

// All lists the supported languages in display order.
func All() []Language {
	return []Language{English, Telugu, Hindi, Spanish, Tamil}
}

// Parse maps a code to a Language, falling back to English for unknown codes.
func Parse(code string) Language {
	switch Language(code) {
	case English, Telugu, Hindi, Spanish, Tamil:
		return Language(code)
	default:
		return English
	}
}

// Name returns the full language name the detection backend expects in its
// language query parameter.
func (l Language) Name() string {
	switch l {
	case Telugu:
		return "Telugu"
	case Hindi:
		return "Hindi"
	case Spanish:
		return "Spanish"
	case Tamil:
		return "Tamil"
	default:
		return "English"
	}
}

type dayLabels struct {
	today    string
	tomorrow string
	dayAfter string
}

var dayLabelTable = map[Language]dayLabels{
	English: {today: "Today", tomorrow: "Tomorrow", dayAfter: "Day after tomorrow"},
	Telugu:  {today: "ఈ రోజు", tomorrow: "రేపు", dayAfter: "ఎల్లుండి"},
	Hindi:   {today: "आज", tomorrow: "कल", dayAfter: "परसों"},
	Spanish: {today: "Hoy", tomorrow: "Mañana", dayAfter: "Pasado mañana"},
	Tamil:   {today: "இன்று", tomorrow: "நாளை", dayAfter: "நாளை மறுநாள்"},
}

// DayLabel returns the localized label for a forecast day slot. offset is the
// number of days from today (0..2). When the day-after-tomorrow label is
// missing for the language, the weekday name of date is used instead.
func (l Language) DayLabel(offset int, date time.Time) string {
	labels := dayLabelTable[l]
	switch offset {
	case 0:
		if labels.today == "" {
			return dayLabelTable[English].today
		}
		return labels.today
	case 1:
		if labels.tomorrow == "" {
			return dayLabelTable[English].tomorrow
		}
		return labels.tomorrow
	default:
		if labels.dayAfter == "" {
			return date.Weekday().String()
		}
		return labels.dayAfter
	}
}

// noLeafDetail is the validation message the detection backend sends when the
// gatekeeper model rejects the image.
const noLeafDetail = "No valid plant leaf detected. Please upload a clear image of a plant leaf."

var noLeafTable = map[Language]string{
	English: noLeafDetail,
	Telugu:  "చిత్రంలో ఆకు కనబడలేదు. దయచేసి స్పష్టమైన మొక్క ఆకు చిత్రాన్ని అప్‌లోడ్ చేయండి.",
	Hindi:   "छवि में कोई पत्ता नहीं मिला। कृपया पौधे की पत्ती की स्पष्ट छवि अपलोड करें।",
	Spanish: "No se detectó una hoja de planta válida. Sube una imagen clara de una hoja.",
	Tamil:   "படத்தில் இலை எதுவும் கண்டறியப்படவில்லை. தெளிவான இலைப் படத்தைப் பதிவேற்றவும்.",
}

// LocalizeDetail maps known backend validation messages to the language.
// Unknown messages are returned verbatim.
func (l Language) LocalizeDetail(detail string) string {
	if detail == noLeafDetail {
		if localized, ok := noLeafTable[l]; ok {
			return localized
		}
	}
	return detail
}

var greetingTable = map[Language]string{
	English: "Hello! I can answer follow-up questions about %s. What would you like to know?",
	Telugu:  "నమస్కారం! %s గురించి మీ ప్రశ్నలకు నేను సమాధానం ఇవ్వగలను. మీరు ఏమి తెలుసుకోవాలనుకుంటున్నారు?",
	Hindi:   "नमस्ते! मैं %s के बारे में आपके सवालों का जवाब दे सकता हूँ। आप क्या जानना चाहेंगे?",
	Spanish: "¡Hola! Puedo responder preguntas sobre %s. ¿Qué te gustaría saber?",
	Tamil:   "வணக்கம்! %s பற்றிய உங்கள் கேள்விகளுக்கு நான் பதிலளிக்க முடியும். என்ன தெரிந்து கொள்ள விரும்புகிறீர்கள்?",
}

// GreetingFormat returns a format string with one %s verb for the disease name.
func (l Language) GreetingFormat() string {
	if format, ok := greetingTable[l]; ok {
		return format
	}
	return greetingTable[English]
}
