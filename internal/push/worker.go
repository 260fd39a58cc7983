package push

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/nats-io/nats.go"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/token"

	"physioconnect/internal/events"
	"physioconnect/internal/repository"
)

// Worker listens for appointment status changes and pushes APNs alerts to the
// patient's registered devices. Without APNs credentials it runs in mock mode
// and only logs what it would have sent.
type Worker struct {
	natsConn   *nats.Conn
	apnsClient *apns2.Client
	deviceRepo repository.DeviceTokenRepository
}

func (w *Worker) handleStatusChanged(msg *nats.Msg) {
	var event events.AppointmentStatusChangedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Printf("Error unmarshalling event: %v", err)
		return
	}

	tokens, err := w.deviceRepo.FindByUserID(context.Background(), event.UserID)
	if err != nil {
		log.Printf("Failed to retrieve device tokens for user %s: %v", event.UserID, err)
		return
	}

	if len(tokens) == 0 {
		return
	}

	payload := fmt.Sprintf(`{"aps":{"alert":"Your appointment on %s at %s is now %s","sound":"default"}}`,
		event.Date, event.Time, event.NewStatus)

	for _, deviceToken := range tokens {
		notification := &apns2.Notification{
			DeviceToken: deviceToken,
			Topic:       os.Getenv("APNS_TOPIC"),
			Payload:     []byte(payload),
		}

		if w.apnsClient == nil {
			log.Printf("mock push: appointment %s -> %s for device %s", event.AppointmentID, event.NewStatus, deviceToken)
			continue
		}

		res, err := w.apnsClient.Push(notification)
		if err != nil {
			log.Printf("Failed to send notification: %v", err)
		} else if !res.Sent() {
			log.Printf("Notification not sent. Reason: %s", res.Reason)
		}
	}
}

func Start(natsURL string, deviceRepo repository.DeviceTokenRepository) error {
	apnsClient, err := newAPNSClient()
	if err != nil {
		return err
	}

	nc, err := nats.Connect(natsURL)
	if err != nil {
		return err
	}

	worker := &Worker{
		natsConn:   nc,
		apnsClient: apnsClient,
		deviceRepo: deviceRepo,
	}

	_, err = nc.Subscribe(events.SubjectStatusChanged, worker.handleStatusChanged)
	return err
}

func newAPNSClient() (*apns2.Client, error) {
	authKeyPath := os.Getenv("APNS_AUTH_KEY_PATH")
	keyID := os.Getenv("APNS_KEY_ID")
	teamID := os.Getenv("APNS_TEAM_ID")

	if authKeyPath == "" || keyID == "" || teamID == "" {
		log.Println("APNs credentials not found. Worker will run in MOCK mode.")
		return nil, nil
	}

	authKey, err := token.AuthKeyFromFile(authKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read APNs auth key: %w", err)
	}

	authToken := &token.Token{
		AuthKey: authKey,
		KeyID:   keyID,
		TeamID:  teamID,
	}

	if os.Getenv("APNS_MODE") == "production" {
		return apns2.NewTokenClient(authToken).Production(), nil
	}
	return apns2.NewTokenClient(authToken).Development(), nil
}
