package claims

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeToken(t *testing.T, payload map[string]interface{}) string {
	t.Helper()

	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	require.NoError(t, err)
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(body) + "." + enc.EncodeToString([]byte("sig"))
}

func TestParseMalformedTokens(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"no dots":        "nodots",
		"two segments":   "a.b",
		"four segments":  "a.b.c.d",
		"invalid base64": "!!!.@@@.###",
		"payload not json": base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none"}`)) +
			".bm90LWpzb24." + base64.RawURLEncoding.EncodeToString([]byte("sig")),
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Nil(t, Parse(token))
		})
	}
}

func TestParseReadsClaims(t *testing.T) {
	token := makeToken(t, map[string]interface{}{"sub": "alice", "email": "alice@example.com"})

	c := Parse(token)
	require.NotNil(t, c)
	assert.Equal(t, "alice", c.String("sub"))
	assert.Equal(t, "alice@example.com", c.String("email"))
	assert.Equal(t, "", c.String("missing"))
}

func TestEmail(t *testing.T) {
	t.Run("email claim wins", func(t *testing.T) {
		token := makeToken(t, map[string]interface{}{"email": "a@x.com", "sub": "b@x.com"})
		assert.Equal(t, "a@x.com", Email(token))
	})

	t.Run("non address email claim falls back to sub", func(t *testing.T) {
		token := makeToken(t, map[string]interface{}{"email": "not-an-address", "sub": "b@x.com"})
		assert.Equal(t, "b@x.com", Email(token))
	})

	t.Run("no address anywhere", func(t *testing.T) {
		token := makeToken(t, map[string]interface{}{"sub": "bob"})
		assert.Equal(t, "", Email(token))
	})

	t.Run("malformed token", func(t *testing.T) {
		assert.Equal(t, "", Email("garbage"))
	})
}

func TestUsername(t *testing.T) {
	t.Run("username claim preferred", func(t *testing.T) {
		token := makeToken(t, map[string]interface{}{"username": "bob", "sub": "ignored"})
		assert.Equal(t, "bob", Username(token))
	})

	t.Run("preferred_username fallback", func(t *testing.T) {
		token := makeToken(t, map[string]interface{}{"preferred_username": "bob"})
		assert.Equal(t, "bob", Username(token))
	})

	t.Run("email shaped sub reduced to local part", func(t *testing.T) {
		token := makeToken(t, map[string]interface{}{"sub": "bob@example.com"})
		assert.Equal(t, "bob", Username(token))
	})

	t.Run("plain sub", func(t *testing.T) {
		token := makeToken(t, map[string]interface{}{"sub": "bob"})
		assert.Equal(t, "bob", Username(token))
	})
}

func TestRoleValues(t *testing.T) {
	t.Run("scalar role", func(t *testing.T) {
		c := Claims{"role": "ADMIN"}
		assert.Equal(t, []string{"ADMIN"}, c.RoleValues())
	})

	t.Run("authorities list", func(t *testing.T) {
		c := Claims{"authorities": []interface{}{"ROLE_USER", "ROLE_ADMIN"}}
		assert.Equal(t, []string{"ROLE_USER", "ROLE_ADMIN"}, c.RoleValues())
	})

	t.Run("authorities space separated string", func(t *testing.T) {
		c := Claims{"authorities": "read write ROLE_ADMIN"}
		assert.Equal(t, []string{"read", "write", "ROLE_ADMIN"}, c.RoleValues())
	})

	t.Run("roles list", func(t *testing.T) {
		c := Claims{"roles": []interface{}{"user", "admin"}}
		assert.Equal(t, []string{"user", "admin"}, c.RoleValues())
	})

	t.Run("realm access roles", func(t *testing.T) {
		c := Claims{"realm_access": map[string]interface{}{"roles": []interface{}{"offline_access", "ADMIN"}}}
		assert.Equal(t, []string{"offline_access", "ADMIN"}, c.RoleValues())
	})

	t.Run("non string entries skipped", func(t *testing.T) {
		c := Claims{"roles": []interface{}{"admin", 42, nil}}
		assert.Equal(t, []string{"admin"}, c.RoleValues())
	})

	t.Run("nil claims", func(t *testing.T) {
		var c Claims
		assert.Nil(t, c.RoleValues())
	})
}
