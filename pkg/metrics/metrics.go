// Package metrics holds the Prometheus collectors exported by the API and the
// cron worker. Constructors return nil for a nil registerer and every method
// tolerates a nil receiver.
package metrics

const namespace = "storefront"

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

func outcomeLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
