package main

import (
	_ "github.com/mediavault/mediavault/src/devstorage"
	_ "github.com/mediavault/mediavault/src/migration"
	"github.com/mediavault/mediavault/src/website"
)

func main() {
	website.WebsiteCommand.Execute()
}
