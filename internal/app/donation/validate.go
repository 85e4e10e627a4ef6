package donation

import (
	"fmt"
	"francoggm/donations-go-redis/internal/models"
	"net/mail"
	"strings"
)

func validate(req *models.PaymentRequest, freq models.FrequencyDefinition, def models.ProviderDefinition) error {
	if req.Amount <= 0 {
		return &models.ValidationError{Field: "amount", Reason: "must be positive"}
	}

	if req.Amount > def.PaymentUpperLimit {
		return &models.ValidationError{
			Field:  "amount",
			Reason: fmt.Sprintf("exceeds the %s limit of %d", def.ID, def.PaymentUpperLimit),
		}
	}

	if len(req.Currency) != 3 || strings.ToUpper(req.Currency) != req.Currency {
		return &models.ValidationError{Field: "currency", Reason: "must be a three letter ISO code"}
	}

	if freq.HasDuration && req.Duration <= 0 {
		return &models.ValidationError{Field: "duration", Reason: "is required for " + freq.ID}
	}

	if def.RequiresCustomerFields {
		donor := req.Donor
		switch {
		case strings.TrimSpace(donor.FirstName) == "":
			return &models.ValidationError{Field: "donor.firstName", Reason: "is required"}
		case strings.TrimSpace(donor.LastName) == "":
			return &models.ValidationError{Field: "donor.lastName", Reason: "is required"}
		case donor.Email == "":
			return &models.ValidationError{Field: "donor.email", Reason: "is required"}
		}

		if _, err := mail.ParseAddress(donor.Email); err != nil {
			return &models.ValidationError{Field: "donor.email", Reason: "is not a valid address"}
		}
	}

	return nil
}
