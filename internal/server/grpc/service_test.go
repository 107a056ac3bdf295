package grpc

import (
	"os"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

var rpcLine = regexp.MustCompile(`rpc (\w+)\(google\.protobuf\.(\w+)\) returns \(google\.protobuf\.(\w+)\)`)

// The hand-written descriptor must stay in line with the proto contract.
func TestAuthServiceDesc_MatchesProto(t *testing.T) {
	src, err := os.ReadFile("../../../api/" + AuthServiceDesc.Metadata.(string))
	require.NoError(t, err)

	assert.Contains(t, string(src), "package todoauth.v1;")
	assert.Contains(t, string(src), "service AuthService {")

	want := map[string][2]string{
		"Login":  {"Struct", "Struct"},
		"WhoAmI": {"Empty", "Struct"},
		"Logout": {"Empty", "Empty"},
	}
	got := map[string][2]string{}
	for _, m := range rpcLine.FindAllStringSubmatch(string(src), -1) {
		got[m[1]] = [2]string{m[2], m[3]}
	}
	assert.Equal(t, want, got)

	var methods []string
	for _, m := range AuthServiceDesc.Methods {
		methods = append(methods, m.MethodName)
	}
	assert.ElementsMatch(t, []string{"Login", "WhoAmI", "Logout"}, methods)
	assert.Empty(t, AuthServiceDesc.Streams)
}

func TestRegisterAuthServiceServer(t *testing.T) {
	srv := grpc.NewServer()
	RegisterAuthServiceServer(srv, &GRPCServer{})

	info, ok := srv.GetServiceInfo()[AuthServiceName]
	require.True(t, ok)
	assert.Equal(t, "todoauth/v1/auth.proto", info.Metadata)

	var names []string
	for _, m := range info.Methods {
		names = append(names, m.Name)
	}
	assert.ElementsMatch(t, []string{"Login", "WhoAmI", "Logout"}, names)
}
