package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"usage-report/internal/config"
	"usage-report/internal/storage"
)

const publishTimeout = 10 * time.Second

// SummaryPayload is the retained message published for each generated report.
type SummaryPayload struct {
	ReportID          string    `json:"report_id"`
	EntryID           string    `json:"entry_id"`
	Start             time.Time `json:"start"`
	End               time.Time `json:"end"`
	TotalMinutes      float64   `json:"total_minutes"`
	UtilizationPct    float64   `json:"utilization_percent"`
	AvailabilityHours float64   `json:"availability_hours"`
	EnergyKWh         float64   `json:"energy_kwh"`
	Cost              float64   `json:"cost"`
	GeneratedAt       time.Time `json:"generated_at"`
}

// MQTT publishes report summaries to a broker.
type MQTT struct {
	client      mqtt.Client
	topicPrefix string
}

// NewMQTT connects to the configured broker.
func NewMQTT(cfg config.MQTTConfig) (*MQTT, error) {
	if cfg.Broker == "" {
		return nil, errors.New("MQTT broker address is required when enabled")
	}

	topicPrefix := cfg.TopicPrefix
	if topicPrefix == "" {
		topicPrefix = "usage_report"
	}
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "usage-report"
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL(cfg.Broker))
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.WaitTimeout(publishTimeout) && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}

	return &MQTT{client: client, topicPrefix: topicPrefix}, nil
}

// PublishSummary sends the report summary as a retained message.
func (p *MQTT) PublishSummary(ctx context.Context, a *storage.Artifact) error {
	body, err := json.Marshal(NewSummaryPayload(a))
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	token := p.client.Publish(SummaryTopic(p.topicPrefix, a.EntryID), 1, true, body)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(publishTimeout):
		return errors.New("MQTT publish timed out")
	}
}

func (p *MQTT) Close() error {
	p.client.Disconnect(250)
	return nil
}

func NewSummaryPayload(a *storage.Artifact) SummaryPayload {
	return SummaryPayload{
		ReportID:          a.ID,
		EntryID:           a.EntryID,
		Start:             a.Range.Start,
		End:               a.Range.End,
		TotalMinutes:      a.Summary.TotalMinutes,
		UtilizationPct:    a.Summary.UtilizationPercent,
		AvailabilityHours: a.Summary.AvailabilityHours,
		EnergyKWh:         a.Summary.EnergyKWh,
		Cost:              a.Summary.Cost,
		GeneratedAt:       a.CreatedAt,
	}
}

// SummaryTopic is <prefix>/<entry>/summary. MQTT wildcards in the entry id are replaced.
func SummaryTopic(prefix, entryID string) string {
	entry := strings.NewReplacer("/", "_", "+", "_", "#", "_").Replace(entryID)
	return fmt.Sprintf("%s/%s/summary", strings.TrimSuffix(prefix, "/"), entry)
}

func brokerURL(broker string) string {
	if strings.Contains(broker, "://") {
		return broker
	}
	return "tcp://" + broker
}
