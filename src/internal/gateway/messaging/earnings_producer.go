package messaging

import (
	"earnings-service/src/internal/model"
	kafka "earnings-service/src/pkg/kafka/confluent"
	"earnings-service/src/pkg/log"
)

type EarningsProducer struct {
	SettledProducer    Producer[*model.EarningsSettledEvent]
	QuestAwardProducer Producer[*model.QuestAwardEvent]
}

func NewEarningsProducer(producer kafka.Producer, log log.Log) *EarningsProducer {
	return &EarningsProducer{
		SettledProducer: Producer[*model.EarningsSettledEvent]{
			Producer: producer,
			Topic:    "earnings-settled",
			Log:      log,
		},
		QuestAwardProducer: Producer[*model.QuestAwardEvent]{
			Producer: producer,
			Topic:    "quest-bonus-awarded",
			Log:      log,
		},
	}
}

func (p *EarningsProducer) SendEarningsSettled(event *model.EarningsSettledEvent) error {
	return p.SettledProducer.Send(event)
}

func (p *EarningsProducer) SendQuestAward(event *model.QuestAwardEvent) error {
	return p.QuestAwardProducer.Send(event)
}
