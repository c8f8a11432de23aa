package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/pprl/blobstore"
	minioblob "github.com/hupe1980/pprl/blobstore/minio"
	s3blob "github.com/hupe1980/pprl/blobstore/s3"
	"github.com/hupe1980/pprl/codec"
	"github.com/hupe1980/pprl/snapshot"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

func newStore(ctx context.Context, out OutputConfig) (blobstore.Store, error) {
	switch out.Type {
	case "local":
		return blobstore.NewLocalStore(out.Path), nil
	case "s3":
		var optFns []func(*config.LoadOptions) error
		if out.Region != "" {
			optFns = append(optFns, config.WithRegion(out.Region))
		}
		awsCfg, err := config.LoadDefaultConfig(ctx, optFns...)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
			if out.Endpoint != "" {
				o.BaseEndpoint = aws.String(out.Endpoint)
				o.UsePathStyle = true
			}
		})
		return s3blob.NewStore(client, out.Bucket, out.Prefix), nil
	case "minio":
		client, err := minio.New(out.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(out.AccessKey, out.SecretKey, ""),
			Secure: out.UseSSL,
			Region: out.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("create minio client: %w", err)
		}
		return minioblob.NewStore(client, out.Bucket, out.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown output type %q", out.Type)
	}
}

func newWriter(store blobstore.Store, out OutputConfig) (*snapshot.Writer, error) {
	c, ok := codec.ByName(out.Codec)
	if !ok {
		return nil, fmt.Errorf("unknown codec %q", out.Codec)
	}
	comp, err := snapshot.ParseCompression(out.Compression)
	if err != nil {
		return nil, err
	}
	return snapshot.NewWriter(store, snapshot.WithCodec(c), snapshot.WithCompression(comp)), nil
}
