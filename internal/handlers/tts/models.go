// internal/handlers/tts/models.go
package tts

type VoiceSettings struct {
	Speed  float64 `json:"speed,omitempty"`
	Pitch  float64 `json:"pitch,omitempty"`
	Volume float64 `json:"volume,omitempty"`
}

type Request struct {
	Text          string        `json:"text"`
	VoiceID       string        `json:"voice_id,omitempty"`
	VoiceSettings VoiceSettings `json:"voice_settings,omitempty"`
}

// synthesizeRequest is the Google Cloud TTS REST payload.
type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding    string   `json:"audioEncoding"`
		EffectsProfileID []string `json:"effectsProfileId"`
		SpeakingRate     float64  `json:"speakingRate"`
		Pitch            float64  `json:"pitch"`
		VolumeGainDb     float64  `json:"volumeGainDb"`
	} `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}
