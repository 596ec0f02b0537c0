package kafka

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestKafkaHeaderCarrier_SetAndGet(t *testing.T) {
	headers := []kafka.Header{{Key: "existing", Value: []byte("value1")}}
	carrier := NewHeaderCarrier(&headers)

	assert.Equal(t, "value1", carrier.Get("existing"))
	assert.Empty(t, carrier.Get("missing"))

	carrier.Set("new-key", "new-value")
	assert.Equal(t, "new-value", carrier.Get("new-key"))

	carrier.Set("existing", "updated")
	assert.Equal(t, "updated", carrier.Get("existing"))
	assert.Len(t, headers, 2)
}

func TestKafkaHeaderCarrier_Keys(t *testing.T) {
	headers := []kafka.Header{
		{Key: "a", Value: []byte("1")},
		{Key: "b", Value: []byte("2")},
	}

	assert.ElementsMatch(t, []string{"a", "b"}, NewHeaderCarrier(&headers).Keys())
}

func TestKafkaHeaderCarrier_Empty(t *testing.T) {
	headers := []kafka.Header{}
	carrier := NewHeaderCarrier(&headers)

	assert.Empty(t, carrier.Keys())
	assert.Empty(t, carrier.Get("anything"))
}
