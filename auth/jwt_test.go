package auth

import (
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	token, exp, err := Issue("stu-1", "student", "smartcampus", "secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if time.Until(exp) < 50*time.Minute {
		t.Errorf("expiry too soon: %v", exp)
	}

	claims, err := Parse(token, "secret", "smartcampus")
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != "stu-1" || claims.Role != "student" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseRejectsBadKeyAndIssuer(t *testing.T) {
	token, _, err := Issue("stu-1", "student", "smartcampus", "secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Parse(token, "other-key", "smartcampus"); err == nil {
		t.Error("wrong key should fail")
	}
	if _, err := Parse(token, "secret", "other-issuer"); err == nil {
		t.Error("wrong issuer should fail")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	token, _, err := Issue("stu-1", "student", "smartcampus", "secret", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Parse(token, "secret", "smartcampus"); err == nil {
		t.Error("expired token should fail")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(hash, "s3cret-pass") {
		t.Error("correct password should verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password should not verify")
	}
}
