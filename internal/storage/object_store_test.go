package storage

import "testing"

func TestPublicObjectURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  ObjectStoreConfig
		key  string
		want string
	}{
		{
			name: "plain endpoint",
			cfg:  ObjectStoreConfig{Endpoint: "minio:9000", Bucket: "creative-studio"},
			key:  "generated/job-1.png",
			want: "http://minio:9000/creative-studio/generated/job-1.png",
		},
		{
			name: "ssl endpoint",
			cfg:  ObjectStoreConfig{Endpoint: "s3.example.com", Bucket: "b", UseSSL: true},
			key:  "/a.png",
			want: "https://s3.example.com/b/a.png",
		},
		{
			name: "public override",
			cfg:  ObjectStoreConfig{Endpoint: "minio:9000", Bucket: "b", PublicURL: "https://cdn.example.com/"},
			key:  "assets/x.webp",
			want: "https://cdn.example.com/b/assets/x.webp",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := publicObjectURL(tt.cfg, tt.key); got != tt.want {
				t.Fatalf("publicObjectURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewObjectStoreParsesSchemeFromEndpoint(t *testing.T) {
	store, err := NewObjectStore(ObjectStoreConfig{Endpoint: "https://minio.example.com", Bucket: "b"})
	if err != nil {
		t.Fatalf("NewObjectStore returned error: %v", err)
	}
	if got := store.PublicURL("k.png"); got != "https://minio.example.com/b/k.png" {
		t.Fatalf("PublicURL = %q", got)
	}
	if _, err := NewObjectStore(ObjectStoreConfig{Endpoint: "minio:9000"}); err == nil {
		t.Fatal("expected error without bucket")
	}
}
