/*
 * @Description: ID 生成和解码服务
 * @Author: 安知鱼
 * @Date: 2025-11-09 13:05:27
 * @LastEditTime: 2026-02-11 19:40:12
 * @LastEditors: 安知鱼
 */
package idgen

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mrand "math/rand"

	"github.com/sqids/sqids-go"
)

// sqidsEncoder 是用于生成和解码短 ID 的 Sqids 编码器实例。
var sqidsEncoder *sqids.Sqids

// DefaultAlphabet 是默认的字母表
const DefaultAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// EntityType 定义了不同实体在生成公共 ID 时的类型标识。
const (
	EntityTypeComment uint64 = 1 // 评论实体的类型标识
)

// GenerateRandomSeed 生成一个随机的 16 字节种子（返回 32 字符的十六进制字符串）
func GenerateRandomSeed() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("生成随机种子失败: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// shuffleAlphabet 使用种子打乱字母表
func shuffleAlphabet(seed string) string {
	// 将种子转换为 int64 用于初始化随机数生成器
	var seedInt int64
	for i, c := range seed {
		seedInt += int64(c) * int64(i+1)
	}

	// 使用确定性随机数生成器
	r := mrand.New(mrand.NewSource(seedInt))

	// 复制字母表并打乱
	alphabet := []rune(DefaultAlphabet)
	r.Shuffle(len(alphabet), func(i, j int) {
		alphabet[i], alphabet[j] = alphabet[j], alphabet[i]
	})

	return string(alphabet)
}

// InitSqidsEncoderWithSeed 使用种子初始化 Sqids 编码器。
// 如果 seed 为空字符串，则使用默认字母表。
func InitSqidsEncoderWithSeed(seed string) error {
	alphabet := DefaultAlphabet
	if seed != "" {
		alphabet = shuffleAlphabet(seed)
	}

	s, err := sqids.New(
		sqids.Options{
			MinLength: 4,
			Alphabet:  alphabet,
		},
	)
	if err != nil {
		return fmt.Errorf("初始化 Sqids 编码器失败: %w", err)
	}
	sqidsEncoder = s
	return nil
}

// GeneratePublicID 将数据库 ID 和实体类型编码为对外暴露的短 ID。
func GeneratePublicID(dbID uint, entityType uint64) (string, error) {
	if sqidsEncoder == nil {
		return "", fmt.Errorf("Sqids 编码器未初始化")
	}

	id, err := sqidsEncoder.Encode([]uint64{uint64(dbID), entityType})
	if err != nil {
		return "", fmt.Errorf("编码公共ID失败: %w", err)
	}

	return id, nil
}

// DecodePublicID 解码公共 ID
func DecodePublicID(publicID string) (dbID uint, entityType uint64, err error) {
	if sqidsEncoder == nil {
		return 0, 0, fmt.Errorf("Sqids 编码器未初始化")
	}

	numbers := sqidsEncoder.Decode(publicID)

	if len(numbers) != 2 {
		return 0, 0, fmt.Errorf("无法从公共ID解码出预期数量的数字(期望2个，得到%d个)", len(numbers))
	}

	return uint(numbers[0]), numbers[1], nil
}

// DecodePublicIDBatch 批量解码公共 ID，并校验每个 ID 属于期望的实体类型。
// 任何一个 ID 解码失败或类型不符，整批失败。
func DecodePublicIDBatch(publicIDs []string, entityType uint64) ([]uint, error) {
	if publicIDs == nil {
		return nil, nil
	}
	dbIDs := make([]uint, len(publicIDs))
	for i, publicID := range publicIDs {
		dbID, decodedType, err := DecodePublicID(publicID)
		if err != nil {
			return nil, fmt.Errorf("解码公共ID '%s' 失败: %w", publicID, err)
		}
		if decodedType != entityType {
			return nil, fmt.Errorf("公共ID '%s' 的实体类型不符(期望%d，得到%d)", publicID, entityType, decodedType)
		}
		dbIDs[i] = dbID
	}
	return dbIDs, nil
}
