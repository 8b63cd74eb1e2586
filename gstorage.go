package tank

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

const googleStoragePrefix = "gs://"

func IsGoogleStoragePath(path string) bool {
	return strings.HasPrefix(path, googleStoragePrefix)
}

// SplitGoogleStoragePath splits gs://bucket/path/to/object into its bucket
// and object name.
func SplitGoogleStoragePath(path string) (bucket, object string, err error) {
	pathParts := strings.SplitN(strings.TrimPrefix(path, googleStoragePrefix), "/", 2)
	if len(pathParts) != 2 || pathParts[0] == "" || pathParts[1] == "" {
		return "", "", fmt.Errorf("Tried to split your google storage path into 2 parts, but got %d: %v", len(pathParts), pathParts)
	}

	return pathParts[0], pathParts[1], nil
}

// OpenMaybeGoogleStorage opens a local file or, for gs:// paths, a Google
// Storage object. A nil client is only acceptable for local paths. A missing
// object or file is reported as an *InputNotFoundError.
func OpenMaybeGoogleStorage(ctx context.Context, kind, path string, client *storage.Client) (io.ReadCloser, error) {
	if IsGoogleStoragePath(path) {
		if client == nil {
			return nil, fmt.Errorf("%s: a Google Storage client is required to read %s", kind, path)
		}

		bucketName, objectName, err := SplitGoogleStoragePath(path)
		if err != nil {
			return nil, err
		}

		rdr, err := client.Bucket(bucketName).Object(objectName).NewReader(ctx)
		if err == storage.ErrObjectNotExist || err == storage.ErrBucketNotExist {
			return nil, &InputNotFoundError{Kind: kind, Path: path}
		} else if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %s", path, err))
		}

		return rdr, nil
	}

	expanded, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(expanded)
	if os.IsNotExist(err) {
		return nil, &InputNotFoundError{Kind: kind, Path: path}
	} else if err != nil {
		return nil, pfx.Err(err)
	}

	return f, nil
}

// ReadCloserFromPath opens path (local or gs://) and undoes any compression.
func ReadCloserFromPath(ctx context.Context, kind, path string, client *storage.Client) (io.ReadCloser, DataType, error) {
	rc, err := OpenMaybeGoogleStorage(ctx, kind, path, client)
	if err != nil {
		return nil, DataTypeInvalid, err
	}

	out, dt, err := MaybeDecompressReadCloser(rc)
	if err != nil {
		rc.Close()
		return nil, dt, pfx.Err(fmt.Errorf("%s: %s", path, err))
	}

	return out, dt, nil
}
