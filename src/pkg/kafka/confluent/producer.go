package kafka

import (
	"fmt"

	"earnings-service/src/pkg/log"

	k "gopkg.in/confluentinc/confluent-kafka-go.v1/kafka"
)

type producer struct {
	producer *k.Producer
	log      log.Log
}

func NewProducer(config *k.ConfigMap, logger log.Log) (Producer, error) {
	p, err := k.NewProducer(config)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	pr := &producer{
		producer: p,
		log:      logger,
	}
	go pr.listenEvents()

	return pr, nil
}

// listenEvents drains delivery reports so the producer channel never blocks.
func (p *producer) listenEvents() {
	for e := range p.producer.Events() {
		switch ev := e.(type) {
		case *k.Message:
			if ev.TopicPartition.Error != nil {
				p.log.Error("kafka-producer", ev.TopicPartition.Error.Error(), "delivery", *ev.TopicPartition.Topic)
			}
		case k.Error:
			p.log.Error("kafka-producer", ev.Error(), "event", "")
		}
	}
}

func (p *producer) Publish(message *k.Message) error {
	return p.producer.Produce(message, nil)
}

func (p *producer) PublishChannel(topic string, message []byte) {
	p.producer.ProduceChannel() <- &k.Message{
		TopicPartition: k.TopicPartition{Topic: &topic, Partition: k.PartitionAny},
		Value:          message,
	}
}
