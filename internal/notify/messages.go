package notify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/neexbeast/skitrip/internal/forecast"
	"github.com/neexbeast/skitrip/internal/push"
	"github.com/neexbeast/skitrip/internal/trip"
)

func (s *Service) link(fragment string) string {
	return s.cfg.BasePath + "/#" + fragment
}

func (s *Service) asset(name string) string {
	return s.cfg.BasePath + "/" + name
}

func (s *Service) weatherPayload(sum forecast.Summary) push.Payload {
	var b strings.Builder
	fmt.Fprintf(&b, "Today's Weather at %s (2000m):\n", s.cfg.Resort)
	fmt.Fprintf(&b, "Temperature: %d°C to %d°C\n", sum.MinTemp, sum.MaxTemp)

	if sum.Snowfall.Any() {
		b.WriteString("🌨️ Expected snowfall:\n")
		writeSnow(&b, "Morning", sum.Snowfall.Morning)
		writeSnow(&b, "Afternoon", sum.Snowfall.Afternoon)
		writeSnow(&b, "Evening", sum.Snowfall.Night)
	} else {
		b.WriteString("No snowfall expected today\n")
	}

	return push.Payload{
		Title: "⛷️ Daily Snow Report",
		Body:  b.String(),
		URL:   s.link("weather"),
		Icon:  s.asset("icon-192x192.png"),
	}
}

func writeSnow(b *strings.Builder, label string, cm float64) {
	if cm > 0 {
		fmt.Fprintf(b, "%s: %scm\n", label, strconv.FormatFloat(cm, 'f', -1, 64))
	}
}

func (s *Service) noBookingPayload() push.Payload {
	return push.Payload{
		Title: "🍽️ No Restaurant Today",
		Body:  "No restaurant for today. Are we going hungry? 😅",
		URL:   s.link("restaurants"),
		Icon:  s.asset("favicon-192x192.png"),
	}
}

func (s *Service) bookingPayload(b trip.Booking) push.Payload {
	body := fmt.Sprintf("🍽️ Tonight's Dinner at %s\nTime: %s\nLocation: %s", b.Name, b.Time, b.Address)
	if b.Comment != "" {
		body += "\nNote: " + b.Comment
	}
	return push.Payload{
		Title: "🍽️ Restaurant Reminder",
		Body:  body,
		URL:   s.link("restaurants"),
		Icon:  s.asset("favicon-192x192.png"),
	}
}

func (s *Service) testPayload() push.Payload {
	return push.Payload{
		Title: "🎉 Test Notification",
		Body:  "If you see this, push notifications are working!",
		URL:   s.link("weather"),
		Icon:  s.asset("icon-192x192.png"),
	}
}
