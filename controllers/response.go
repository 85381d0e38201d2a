package controllers

import (
	"errors"
	"html/template"
	"net/http"
	"time"

	"glowdesk-backend/models"
	"glowdesk-backend/services"

	"github.com/gin-gonic/gin"
)

// ResponseController is the public, unauthenticated endpoint behind the
// links embedded in outbound messages. Everything it reveals is gated by
// possession of a valid, unexpired token.
type ResponseController struct {
	Service *services.ResponseService
}

func NewResponseController(service *services.ResponseService) *ResponseController {
	return &ResponseController{Service: service}
}

// ResponseTemplates returns the HTML views for the response endpoint;
// main wires them into the router with SetHTMLTemplate.
func ResponseTemplates() *template.Template {
	return template.Must(template.New("responses").Parse(responseTemplates))
}

const responseTemplates = `
{{define "response_form.html"}}<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{.BusinessName}}</title></head>
<body>
<h1>{{.BusinessName}}</h1>
<p>Hi {{.CustomerName}}, your {{.ServiceName}} appointment is on {{.BookingTime}}.</p>
<form method="POST" action="/responses?token={{.Token}}">
  <label><input type="radio" name="response_type" value="approve" checked> Confirm</label><br>
  <label><input type="radio" name="response_type" value="cancel"> Cancel</label><br>
  <label><input type="radio" name="response_type" value="modify"> Request a new time</label><br>
  <input type="datetime-local" name="new_booking_time">
  <button type="submit">Send</button>
</form>
</body></html>{{end}}

{{define "response_result.html"}}<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Thank you</title></head>
<body><h1>Thank you</h1><p>{{.Message}}</p></body></html>{{end}}

{{define "response_error.html"}}<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body><h1>{{.Title}}</h1><p>{{.Message}}</p></body></html>{{end}}
`

// resolveOrRenderError maps token lookup failures onto uniform error pages.
// Unknown and malformed tokens get the identical 404 page so the endpoint
// cannot be used as a token-format oracle.
func (ctrl *ResponseController) resolveOrRenderError(c *gin.Context) (*models.CampaignMessage, bool) {
	token := c.Query("token")
	if token == "" {
		c.HTML(http.StatusBadRequest, "response_error.html", gin.H{
			"Title":   "Missing link",
			"Message": "This link is incomplete. Please use the link from your message.",
		})
		return nil, false
	}

	message, err := ctrl.Service.Resolve(token)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTokenNotFound):
			c.HTML(http.StatusNotFound, "response_error.html", gin.H{
				"Title":   "Link not found",
				"Message": "We could not find this link. Please use the link from your message.",
			})
		case errors.Is(err, services.ErrTokenExpired):
			c.HTML(http.StatusGone, "response_error.html", gin.H{
				"Title":   "Link expired",
				"Message": "This link has expired. Please contact us directly.",
			})
		default:
			c.HTML(http.StatusInternalServerError, "response_error.html", gin.H{
				"Title":   "Something went wrong",
				"Message": "Please try again later.",
			})
		}
		return nil, false
	}

	return message, true
}

// ShowForm renders the response form. Idempotent, no state change.
func (ctrl *ResponseController) ShowForm(c *gin.Context) {
	message, ok := ctrl.resolveOrRenderError(c)
	if !ok {
		return
	}

	customerName := message.Customer.Name
	if customerName == "" {
		customerName = "there"
	}
	serviceName := message.Booking.Service.Name
	if serviceName == "" {
		serviceName = "upcoming"
	}

	c.HTML(http.StatusOK, "response_form.html", gin.H{
		"BusinessName": "Your appointment",
		"CustomerName": customerName,
		"ServiceName":  serviceName,
		"BookingTime":  message.Booking.BookingTime.Format("Monday, January 2 at 3:04 PM"),
		"Token":        c.Query("token"),
	})
}

// Submit records the customer's decision and applies its side effect.
func (ctrl *ResponseController) Submit(c *gin.Context) {
	message, ok := ctrl.resolveOrRenderError(c)
	if !ok {
		return
	}

	responseType := models.ResponseType(c.PostForm("response_type"))
	if !responseType.Valid() {
		c.HTML(http.StatusBadRequest, "response_error.html", gin.H{
			"Title":   "Invalid response",
			"Message": "Please choose one of the offered options.",
		})
		return
	}

	submission := services.ResponseSubmission{
		ResponseType: responseType,
		IPAddress:    c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
	}

	if raw := c.PostForm("new_booking_time"); raw != "" {
		newTime, err := parseBookingTime(raw)
		if err != nil {
			c.HTML(http.StatusBadRequest, "response_error.html", gin.H{
				"Title":   "Invalid time",
				"Message": "The requested time could not be understood.",
			})
			return
		}
		submission.NewBookingTime = &newTime
	}

	_, err := ctrl.Service.Record(message, submission)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyResponded):
			c.HTML(http.StatusConflict, "response_error.html", gin.H{
				"Title":   "Already answered",
				"Message": "A response for this appointment has already been recorded.",
			})
		case errors.Is(err, services.ErrNewTimeRequired):
			c.HTML(http.StatusBadRequest, "response_error.html", gin.H{
				"Title":   "Time required",
				"Message": "Please pick the new time you would like.",
			})
		default:
			c.HTML(http.StatusInternalServerError, "response_error.html", gin.H{
				"Title":   "Something went wrong",
				"Message": "Your response could not be saved. Please try again later.",
			})
		}
		return
	}

	var confirmation string
	switch responseType {
	case models.ResponseApprove:
		confirmation = "Your appointment is confirmed. See you soon!"
	case models.ResponseCancel:
		confirmation = "Your appointment has been cancelled."
	case models.ResponseModify:
		confirmation = "Your request for a new time has been received. We will be in touch."
	}

	c.HTML(http.StatusOK, "response_result.html", gin.H{"Message": confirmation})
}

// parseBookingTime accepts RFC 3339 or the "2006-01-02T15:04" shape that
// datetime-local inputs submit.
func parseBookingTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04", raw)
}
