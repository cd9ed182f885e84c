package devstorage

import (
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/mediavault/mediavault/src/logging"
	"github.com/mediavault/mediavault/src/website"
	"github.com/spf13/cobra"
)

// A tiny S3-compatible server backed by the local filesystem, for development
// without real object storage. It implements just enough of the S3 API for
// our uploads: PUT, GET and DELETE on objects, plus bucket creation.
func init() {
	devStorageCommand := &cobra.Command{
		Use:   "devstorage [storage folder]",
		Short: "Run a local s3-compatible server that stores in the filesystem",
		Run: func(cmd *cobra.Command, args []string) {
			targetFolder := "./tmp/storage"
			if len(args) > 0 {
				targetFolder = args[0]
			}
			addr, _ := cmd.Flags().GetString("addr")

			err := os.MkdirAll(targetFolder, fs.ModePerm)
			if err != nil {
				panic(err)
			}

			logging.Info().Str("addr", addr).Str("folder", targetFolder).Msg("Starting dev object storage")
			err = http.ListenAndServe(addr, &server{folder: targetFolder})
			logging.Fatal().Err(err).Msg("Dev object storage server shut down")
		},
	}
	devStorageCommand.Flags().String("addr", ":9003", "address to listen on")

	website.WebsiteCommand.AddCommand(devStorageCommand)
}

type server struct {
	folder string
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	bucket, key := bucketKey(r)
	logging.Debug().
		Str("method", r.Method).
		Str("bucket", bucket).
		Str("key", key).
		Msg("dev storage request")

	switch r.Method {
	case http.MethodPut:
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Location", fmt.Sprintf("/%s", bucket))
		err = os.MkdirAll(fmt.Sprintf("%s/%s", s.folder, bucket), fs.ModePerm)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if key != "" {
			err = os.WriteFile(s.objectPath(bucket, key), bodyBytes, fs.ModePerm)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
		}
	case http.MethodGet, http.MethodHead:
		fileBytes, err := os.ReadFile(s.objectPath(bucket, key))
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write(fileBytes)
	case http.MethodDelete:
		os.Remove(s.objectPath(bucket, key))
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "unimplemented method", http.StatusNotImplemented)
	}
}

// Object keys contain slashes, but we store each object as a single file
// directly under the bucket folder.
func (s *server) objectPath(bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", s.folder, bucket, key)
}

func bucketKey(r *http.Request) (string, string) {
	slashIdx := strings.IndexByte(r.URL.Path[1:], '/')
	if slashIdx == -1 {
		return r.URL.Path[1:], ""
	} else {
		return r.URL.Path[1 : 1+slashIdx], strings.Replace(r.URL.Path[2+slashIdx:], "/", "~", -1)
	}
}
