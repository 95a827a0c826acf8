package remoteconfig

// Response is the app config served by the config backend
type Response struct {
	ForceUpdate bool              `json:"forceUpdate"`
	InfoBox     *LocalizedInfoBox `json:"infoBox,omitempty"`
	SDKConfig   *GAENSDKConfig    `json:"iOSGaenSdkConfig,omitempty"`
}

type LocalizedInfoBox struct {
	DE InfoBox `json:"deInfoBox"`
	FR InfoBox `json:"frInfoBox"`
	IT InfoBox `json:"itInfoBox"`
	EN InfoBox `json:"enInfoBox"`
}

type InfoBox struct {
	Title    string `json:"title"`
	Msg      string `json:"msg"`
	URL      string `json:"url,omitempty"`
	URLTitle string `json:"urlTitle,omitempty"`
}

// GAENSDKConfig holds the attenuation thresholds for exposure scoring
type GAENSDKConfig struct {
	LowerThreshold   int     `json:"lowerThreshold"`
	HigherThreshold  int     `json:"higherThreshold"`
	FactorLow        float64 `json:"factorLow"`
	FactorHigh       float64 `json:"factorHigh"`
	TriggerThreshold int     `json:"triggerThreshold"`
}

// InfoBoxFor returns the info box in the given language (de, fr, it, en),
// falling back to German. ok is false when the config has no info box.
func (r *Response) InfoBoxFor(lang string) (InfoBox, bool) {
	if r == nil || r.InfoBox == nil {
		return InfoBox{}, false
	}
	switch lang {
	case "fr":
		return r.InfoBox.FR, true
	case "it":
		return r.InfoBox.IT, true
	case "en":
		return r.InfoBox.EN, true
	default:
		return r.InfoBox.DE, true
	}
}
