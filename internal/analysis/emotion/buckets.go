package emotion

import "strings"

// Bucket is one of the seven coarse emotions content recommendations are keyed by.
type Bucket string

const (
	BucketHappy    Bucket = "happy"
	BucketSad      Bucket = "sad"
	BucketAngry    Bucket = "angry"
	BucketSurprise Bucket = "surprise"
	BucketNeutral  Bucket = "neutral"
	BucketFear     Bucket = "fear"
	BucketDisgust  Bucket = "disgust"
)

// Buckets lists every canonical bucket.
var Buckets = []Bucket{BucketHappy, BucketSad, BucketAngry, BucketSurprise, BucketNeutral, BucketFear, BucketDisgust}

var bucketByLabel = map[string]Bucket{
	"happy":     BucketHappy,
	"sad":       BucketSad,
	"angry":     BucketAngry,
	"neutral":   BucketNeutral,
	"surprised": BucketSurprise,
	"anxious":   BucketFear,
	"disgusted": BucketDisgust,

	"frustrated":   BucketAngry,
	"confused":     BucketNeutral,
	"hopeful":      BucketHappy,
	"grateful":     BucketHappy,
	"lonely":       BucketSad,
	"overwhelmed":  BucketFear,
	"excited":      BucketHappy,
	"calm":         BucketNeutral,
	"nervous":      BucketFear,
	"proud":        BucketHappy,
	"disappointed": BucketSad,
	"worried":      BucketFear,
	"stressed":     BucketFear,
	"relaxed":      BucketNeutral,
	"content":      BucketHappy,
}

// Canonicalize folds a fine-grained label into its bucket; unknown labels fold to neutral.
func Canonicalize(label string) Bucket {
	if bucket, ok := bucketByLabel[strings.ToLower(strings.TrimSpace(label))]; ok {
		return bucket
	}
	return BucketNeutral
}
