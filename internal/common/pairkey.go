package common

// PairKey derives the canonical key for an unordered participant pair.
// Both conversations and call admission index on it, so "a:b" and "b:a"
// always collapse to the same key.
func PairKey(userA, userB string) string {
	if userA > userB {
		userA, userB = userB, userA
	}
	return userA + ":" + userB
}
