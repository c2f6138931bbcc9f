package cpu

import (
	"fmt"

	"github.com/orthonet-ml/orthonet/internal/tensor"
)

// Conv2D performs direct 2D convolution in NHWC layout.
//
// Input shape:  [batch, height, width, in_channels]
// Kernel shape: [kernel_h, kernel_w, in_channels, out_channels]
// Output shape: [batch, out_h, out_w, out_channels]
//
// stride is [strideH, strideW]; pad is [top, bottom, left, right], resolved
// by the calling layer from its padding mode. Output dimensions:
//
//	out_h = (height + padTop + padBottom - kernel_h) / strideH + 1
//	out_w = (width + padLeft + padRight - kernel_w) / strideW + 1
//
// Out-of-bounds taps read as zero, which is exactly zero padding without
// materializing a padded copy of the input.
func (cpu *CPUBackend) Conv2D(input, kernel *tensor.RawTensor, stride [2]int, pad [4]int) *tensor.RawTensor {
	inputShape := input.Shape()
	kernelShape := kernel.Shape()

	if len(inputShape) != 4 {
		panic(fmt.Sprintf("conv2d: input must be 4D [N,H,W,C], got %dD", len(inputShape)))
	}
	if len(kernelShape) != 4 {
		panic(fmt.Sprintf("conv2d: kernel must be 4D [K_h,K_w,C_in,C_out], got %dD", len(kernelShape)))
	}
	if stride[0] <= 0 || stride[1] <= 0 {
		panic(fmt.Sprintf("conv2d: invalid stride %v", stride))
	}
	for _, p := range pad {
		if p < 0 {
			panic(fmt.Sprintf("conv2d: invalid padding %v", pad))
		}
	}

	n := inputShape[0]
	h := inputShape[1]
	w := inputShape[2]
	cIn := inputShape[3]
	kh := kernelShape[0]
	kw := kernelShape[1]
	cInK := kernelShape[2]
	cOut := kernelShape[3]

	if cIn != cInK {
		panic(fmt.Sprintf("conv2d: input channels %d != kernel channels %d", cIn, cInK))
	}

	hOut := (h+pad[0]+pad[1]-kh)/stride[0] + 1
	wOut := (w+pad[2]+pad[3]-kw)/stride[1] + 1
	if hOut <= 0 || wOut <= 0 {
		panic(fmt.Sprintf("conv2d: invalid output dimensions: out_h=%d, out_w=%d (check stride/padding)", hOut, wOut))
	}

	output, err := tensor.NewRaw(tensor.Shape{n, hOut, wOut, cOut}, input.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("conv2d: failed to create output tensor: %v", err))
	}

	switch input.DType() {
	case tensor.Float32:
		conv2dKernel(output.AsFloat32(), input.AsFloat32(), kernel.AsFloat32(),
			n, h, w, cIn, kh, kw, cOut, hOut, wOut, stride, pad)
	case tensor.Float64:
		conv2dKernel(output.AsFloat64(), input.AsFloat64(), kernel.AsFloat64(),
			n, h, w, cIn, kh, kw, cOut, hOut, wOut, stride, pad)
	default:
		panic(fmt.Sprintf("conv2d: unsupported dtype %s", input.DType()))
	}

	return output
}

// conv2dKernel accumulates each output position directly from the input
// window. With NHWC/HWIO layouts the innermost loop runs over contiguous
// out-channel weights, so the access pattern stays cache-friendly without an
// im2col buffer.
func conv2dKernel[T tensor.DType](out, in, wgt []T, n, h, w, cIn, kh, kw, cOut, hOut, wOut int, stride [2]int, pad [4]int) {
	for b := 0; b < n; b++ {
		for oh := 0; oh < hOut; oh++ {
			hStart := oh*stride[0] - pad[0]
			for ow := 0; ow < wOut; ow++ {
				wStart := ow*stride[1] - pad[2]
				outBase := ((b*hOut+oh)*wOut + ow) * cOut

				for ki := 0; ki < kh; ki++ {
					ih := hStart + ki
					if ih < 0 || ih >= h {
						continue
					}
					for kj := 0; kj < kw; kj++ {
						iw := wStart + kj
						if iw < 0 || iw >= w {
							continue
						}
						inBase := ((b*h+ih)*w + iw) * cIn
						wgtBase := (ki*kw + kj) * cIn * cOut
						for c := 0; c < cIn; c++ {
							v := in[inBase+c]
							if v == 0 {
								continue
							}
							wRow := wgtBase + c*cOut
							for f := 0; f < cOut; f++ {
								out[outBase+f] += v * wgt[wRow+f]
							}
						}
					}
				}
			}
		}
	}
}
