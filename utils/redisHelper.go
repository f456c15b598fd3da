package utils

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mmdatafocus/ricemill_backend/config"
)

func GetCacheLifespan() time.Duration {
	lifespan, err := strconv.Atoi(os.Getenv("CACHE_LIFESPAN"))
	if err != nil {
		lifespan = 1
	}
	return time.Duration(lifespan) * time.Hour
}

/* generic functions */

func GetTypeName[T any]() string {
	var v T
	typeOfT := reflect.TypeOf(v)
	return typeOfT.Name()
}

/* Redis */

func redisIdKey[T any](id int) string {
	return GetTypeName[T]() + ":" + fmt.Sprint(id)
}

// names are matched case-insensitively, so the key is normalized
func redisNameKey[T any](name string) string {
	return GetTypeName[T]() + ":name:" + strings.ToLower(strings.TrimSpace(name))
}

// store instance, obj should be a pointer
func StoreRedis[T any](obj *T, id int) error {
	return config.SetRedisObject(redisIdKey[T](id), obj, GetCacheLifespan())
}

// get from redis
// returns nil if does not exist
func RetrieveRedis[T any](id int) (*T, error) {
	var result *T
	exists, err := config.GetRedisObject(redisIdKey[T](id), &result)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return result, nil
}

func StoreRedisByName[T any](obj *T, name string) error {
	return config.SetRedisObject(redisNameKey[T](name), obj, GetCacheLifespan())
}

func RetrieveRedisByName[T any](name string) (*T, error) {
	var result *T
	exists, err := config.GetRedisObject(redisNameKey[T](name), &result)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return result, nil
}

// remove Type:$id and Type:name:$name together
func RemoveRedisItemAndName[T any](id int, names ...string) error {
	keys := []string{redisIdKey[T](id)}
	for _, name := range names {
		keys = append(keys, redisNameKey[T](name))
	}
	return config.RemoveRedisKey(keys...)
}
