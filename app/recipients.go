package app

import (
	"encoding/json"

	"github.com/jackc/pgx/v5/pgtype"
)

// SubscriberDefine is the normalized shape of a direct recipient: the external
// subscriber ID plus whatever profile fields the trigger chose to supply.
type SubscriberDefine struct {
	SubscriberID string          `json:"subscriberId"`
	FirstName    string          `json:"firstName,omitempty"`
	LastName     string          `json:"lastName,omitempty"`
	Email        string          `json:"email,omitempty"`
	Phone        string          `json:"phone,omitempty"`
	Avatar       string          `json:"avatar,omitempty"`
	Locale       string          `json:"locale,omitempty"`
	Data         json.RawMessage `json:"data,omitempty"`
}

// TopicRef identifies one resolved topic attached to a topic-sourced
// subscriber's queue payload and jobs.
type TopicRef struct {
	ID  pgtype.UUID `json:"id"`
	Key string      `json:"key"`
}

type RecipientKind int

const (
	RecipientDirectID RecipientKind = iota
	RecipientDirectProfile
	RecipientTopic
)

const topicRecipientType = "Topic"

// Recipient is the tagged variant of one entry in a trigger's recipient list:
// a bare subscriber ID, a subscriber definition with profile fields, or a
// topic key. The shape is resolved exactly once, at the JSON boundary;
// downstream code switches on Kind and never re-inspects raw JSON.
type Recipient struct {
	Kind     RecipientKind
	ID       string
	Profile  SubscriberDefine
	TopicKey string
}

func DirectID(id string) Recipient {
	return Recipient{Kind: RecipientDirectID, ID: id}
}

func DirectProfile(profile SubscriberDefine) Recipient {
	return Recipient{Kind: RecipientDirectProfile, Profile: profile}
}

func TopicRecipient(key string) Recipient {
	return Recipient{Kind: RecipientTopic, TopicKey: key}
}

// UnmarshalJSON classifies a raw recipient entry. Arrays and null are
// rejected outright; objects are topics when type == "Topic" and subscriber
// definitions otherwise.
func (r *Recipient) UnmarshalJSON(b []byte) error {
	var probe any
	if err := json.Unmarshal(b, &probe); err != nil {
		return &InvalidRecipientError{Reason: "recipient is not valid JSON"}
	}

	switch v := probe.(type) {
	case string:
		*r = DirectID(v)
		return nil
	case map[string]any:
		if t, ok := v["type"].(string); ok && t == topicRecipientType {
			key, _ := v["topicKey"].(string)
			if key == "" {
				return &InvalidRecipientError{Reason: "topic recipient is missing topicKey"}
			}
			*r = TopicRecipient(key)
			return nil
		}
		var profile SubscriberDefine
		if err := json.Unmarshal(b, &profile); err != nil {
			return &InvalidRecipientError{Reason: "recipient object has an invalid shape"}
		}
		*r = DirectProfile(profile)
		return nil
	case nil:
		return &InvalidRecipientError{Reason: "recipient is null"}
	case []any:
		return &InvalidRecipientError{Reason: "recipient is an array, subscriber ids must be strings"}
	default:
		return &InvalidRecipientError{Reason: "recipient must be a string, subscriber object, or topic object"}
	}
}

// SplitRecipients classifies a recipient list into direct subscribers keyed by
// subscriber ID and an ordered, deduplicated set of topic keys. A duplicate
// direct recipient silently collapses to one entry, last write wins on profile
// fields. Pure function, no I/O.
func SplitRecipients(recipients []Recipient) (map[string]SubscriberDefine, []string, error) {
	singles := make(map[string]SubscriberDefine)
	var topicKeys []string
	seenTopics := make(map[string]bool)

	for _, recipient := range recipients {
		switch recipient.Kind {
		case RecipientDirectID:
			if recipient.ID == "" {
				return nil, nil, &InvalidRecipientError{Reason: "subscriber id is empty"}
			}
			singles[recipient.ID] = SubscriberDefine{SubscriberID: recipient.ID}
		case RecipientDirectProfile:
			if recipient.Profile.SubscriberID == "" {
				return nil, nil, &InvalidRecipientError{Reason: "subscriber object is missing subscriberId"}
			}
			singles[recipient.Profile.SubscriberID] = recipient.Profile
		case RecipientTopic:
			if recipient.TopicKey == "" {
				return nil, nil, &InvalidRecipientError{Reason: "topic recipient is missing topicKey"}
			}
			if !seenTopics[recipient.TopicKey] {
				seenTopics[recipient.TopicKey] = true
				topicKeys = append(topicKeys, recipient.TopicKey)
			}
		default:
			return nil, nil, &InvalidRecipientError{Reason: "unknown recipient kind"}
		}
	}

	return singles, topicKeys, nil
}
