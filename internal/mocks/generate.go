package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/pitch --output domain/pitch --outpkg pitchmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/rawfeed --output domain/rawfeed --outpkg rawfeedmock --filename repository_mock.go
