package recognition

const (
	KindStar    = "star"
	KindDislike = "dislike"

	// MaxPerMonth is the per-giver, per-kind quota inside a calendar month.
	MaxPerMonth = 3

	// MsgQuotaExceeded is user-facing; the product audience is Brazilian.
	MsgQuotaExceeded = "Você já usou todos os seus reconhecimentos deste mês."
)

func ValidKind(kind string) bool {
	return kind == KindStar || kind == KindDislike
}
