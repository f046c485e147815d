package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"GuardianAngelAPI/internal/config"
	"GuardianAngelAPI/internal/logger"
	"GuardianAngelAPI/internal/models"

	"golang.org/x/oauth2"
)

const fitbitAPIBase = "https://api.fitbit.com"

// fitbitEndpoint is the Fitbit OAuth2 endpoint pair.
var fitbitEndpoint = oauth2.Endpoint{
	AuthURL:  "https://www.fitbit.com/oauth2/authorize",
	TokenURL: "https://api.fitbit.com/oauth2/token",
}

// FitbitSource pulls real device data from the Fitbit Web API using an
// OAuth2 refresh token. Token renewal is handled by the oauth2 token source.
type FitbitSource struct {
	client *http.Client
	log    *logger.Logger
}

func NewFitbitSource(cfg config.FitbitConfig, log *logger.Logger) (*FitbitSource, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("fitbit client credentials are required")
	}
	if cfg.RefreshToken == "" {
		return nil, fmt.Errorf("fitbit refresh token is required")
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     fitbitEndpoint,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       []string{"heartrate", "activity", "sleep", "oxygen_saturation", "temperature"},
	}

	token := &oauth2.Token{RefreshToken: cfg.RefreshToken}
	client := oauthCfg.Client(context.Background(), token)
	client.Timeout = 15 * time.Second

	return &FitbitSource{
		client: client,
		log:    log,
	}, nil
}

// Start is a no-op: the Fitbit source fetches on demand.
func (f *FitbitSource) Start() {}

// Stop is a no-op.
func (f *FitbitSource) Stop() {}

// Latest fetches today's readings. Endpoints that fail or return nothing
// leave their field nil, which the evaluator then skips.
func (f *FitbitSource) Latest(ctx context.Context) (models.TelemetrySample, error) {
	sample := models.TelemetrySample{LastUpdated: time.Now()}
	day := time.Now().Format("2006-01-02")

	if hr, resting, err := f.fetchHeartRate(ctx, day); err != nil {
		f.log.Warn("Fitbit heart rate fetch failed: %v", err)
	} else {
		sample.LiveHeartRate = hr
		sample.RestingHeartRate = resting
	}

	if steps, err := f.fetchSteps(ctx, day); err != nil {
		f.log.Warn("Fitbit steps fetch failed: %v", err)
	} else {
		sample.DailySteps = steps
	}

	if spo2, err := f.fetchSpO2(ctx, day); err != nil {
		f.log.Warn("Fitbit SpO2 fetch failed: %v", err)
	} else {
		sample.SpO2 = spo2
	}

	if sample.LiveHeartRate == nil && sample.DailySteps == nil && sample.SpO2 == nil {
		return sample, fmt.Errorf("fitbit returned no usable data for %s", day)
	}

	return sample, nil
}

func (f *FitbitSource) fetchHeartRate(ctx context.Context, day string) (*int, *int, error) {
	var payload struct {
		ActivitiesHeart []struct {
			Value struct {
				RestingHeartRate int `json:"restingHeartRate"`
			} `json:"value"`
		} `json:"activities-heart"`
		ActivitiesHeartIntraday struct {
			Dataset []struct {
				Value int `json:"value"`
			} `json:"dataset"`
		} `json:"activities-heart-intraday"`
	}

	url := fmt.Sprintf("%s/1/user/-/activities/heart/date/%s/1d/1min.json", fitbitAPIBase, day)
	if err := f.getJSON(ctx, url, &payload); err != nil {
		return nil, nil, err
	}

	var live, resting *int
	if n := len(payload.ActivitiesHeartIntraday.Dataset); n > 0 {
		v := payload.ActivitiesHeartIntraday.Dataset[n-1].Value
		live = &v
	}
	if len(payload.ActivitiesHeart) > 0 && payload.ActivitiesHeart[0].Value.RestingHeartRate > 0 {
		v := payload.ActivitiesHeart[0].Value.RestingHeartRate
		resting = &v
	}
	return live, resting, nil
}

func (f *FitbitSource) fetchSteps(ctx context.Context, day string) (*int, error) {
	var payload struct {
		Summary struct {
			Steps int `json:"steps"`
		} `json:"summary"`
	}

	url := fmt.Sprintf("%s/1/user/-/activities/date/%s.json", fitbitAPIBase, day)
	if err := f.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	steps := payload.Summary.Steps
	return &steps, nil
}

func (f *FitbitSource) fetchSpO2(ctx context.Context, day string) (*int, error) {
	var payload struct {
		Value struct {
			Avg float64 `json:"avg"`
		} `json:"value"`
	}

	url := fmt.Sprintf("%s/1/user/-/spo2/date/%s.json", fitbitAPIBase, day)
	if err := f.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	if payload.Value.Avg == 0 {
		return nil, nil
	}
	v := int(payload.Value.Avg)
	return &v, nil
}

func (f *FitbitSource) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fitbit API returned %d for %s", resp.StatusCode, url)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
