package pawmart

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

const (
	servicesEndpoint     = "/services"
	appointmentsEndpoint = "/appointments"
)

// appointmentService implements the AppointmentService interface
type appointmentService struct {
	client *Client
}

// Services retrieves the bookable pet-care services
func (s *appointmentService) Services(ctx context.Context) ([]*GroomingService, error) {
	var services []*GroomingService
	if err := s.client.do(ctx, http.MethodGet, servicesEndpoint, nil, &services); err != nil {
		return nil, errors.Wrap(err, "failed to list services")
	}
	return services, nil
}

// Book books a service appointment
func (s *appointmentService) Book(ctx context.Context, params *BookAppointmentParams) (*Appointment, error) {
	var appointment Appointment
	if err := s.client.do(ctx, http.MethodPost, appointmentsEndpoint, params, &appointment); err != nil {
		return nil, errors.Wrap(err, "failed to book appointment")
	}
	return &appointment, nil
}

// List retrieves the user's appointments
func (s *appointmentService) List(ctx context.Context) ([]*Appointment, error) {
	var appointments []*Appointment
	if err := s.client.do(ctx, http.MethodGet, appointmentsEndpoint, nil, &appointments); err != nil {
		return nil, errors.Wrap(err, "failed to list appointments")
	}
	return appointments, nil
}

// Cancel cancels an appointment
func (s *appointmentService) Cancel(ctx context.Context, appointmentID string) error {
	if err := s.client.do(ctx, http.MethodPut, appointmentsEndpoint+"/"+appointmentID+"/cancel", nil, nil); err != nil {
		return errors.Wrap(err, "failed to cancel appointment")
	}
	return nil
}
